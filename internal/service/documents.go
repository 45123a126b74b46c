package service

import (
	"context"
	"fmt"
	"image"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vbonduro/rentalmngr/internal/document"
	"github.com/vbonduro/rentalmngr/internal/domain"
)

const commonPhotosPerRoom = 2

// ContractPDF renders the tenant's contract. The room is the tenant's
// assigned room, else the first room of the property. Property house rules
// replace the profile defaults when any exist.
func (s *RentalService) ContractPDF(ctx context.Context, tenantID uuid.UUID, tmpl document.Template) ([]byte, error) {
	tenant, err := s.getTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	property, err := s.GetProperty(ctx, tenant.PropertyID)
	if err != nil {
		return nil, err
	}

	var room *domain.Room
	for _, r := range property.Rooms {
		if r.TenantID != nil && *r.TenantID == tenant.ID {
			room = r
			break
		}
	}
	if room == nil && len(property.Rooms) > 0 {
		room = property.Rooms[0]
	}
	if room == nil {
		return nil, invalid("property has no rooms to put in a contract")
	}

	rules, err := s.repos.HouseRules.ListByProperty(ctx, property.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list house rules: %w", err)
	}
	var ruleText []string
	for _, r := range rules {
		ruleText = append(ruleText, r.Text())
	}

	return s.documents.GenerateContract(document.ContractInput{
		Tenant:     tenant,
		Room:       room,
		Property:   property,
		HouseRules: ruleText,
		Template:   tmpl,
	})
}

// RoomAdPDF renders the advertisement for a room with a deposit of one
// month's rent. Each common room contributes at most two photos.
func (s *RentalService) RoomAdPDF(ctx context.Context, roomID uuid.UUID, ownerContact string) ([]byte, error) {
	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	property, err := s.GetProperty(ctx, room.PropertyID)
	if err != nil {
		return nil, err
	}
	common := property.CommonRooms()

	commonImages := make(map[uuid.UUID][]image.Image)
	for _, c := range common {
		if len(c.Photos) == 0 {
			continue
		}
		refs := c.Photos
		if len(refs) > commonPhotosPerRoom {
			refs = refs[:commonPhotosPerRoom]
		}
		if imgs := s.images.Fetch(ctx, refs); len(imgs) > 0 {
			commonImages[c.ID] = imgs
		}
	}

	return s.documents.GenerateRoomAd(document.RoomAdInput{
		Room:             room,
		Property:         property,
		CommonRooms:      common,
		Deposit:          decimal.NewNullDecimal(room.MonthlyRent),
		OwnerContact:     ownerContact,
		RoomImages:       s.images.Fetch(ctx, room.Photos),
		CommonRoomImages: commonImages,
	})
}
