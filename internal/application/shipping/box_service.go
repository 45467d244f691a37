package shipping

import (
	"context"
	"errors"

	"github.com/mydfacylita/backend/internal/domain/shared"
	"github.com/mydfacylita/backend/internal/domain/shipping"
)

// BoxService manages the admin-facing packaging box catalog
type BoxService struct {
	boxes shipping.BoxRepository
}

// NewBoxService creates a new box service
func NewBoxService(boxes shipping.BoxRepository) *BoxService {
	return &BoxService{boxes: boxes}
}

// CreateBox adds a box to the catalog. Codes are unique.
func (s *BoxService) CreateBox(ctx context.Context, input CreateBoxInput) (*BoxDTO, error) {
	if _, err := s.boxes.FindByCode(ctx, input.Code); err == nil {
		return nil, shared.NewDomainError("DUPLICATE_CODE", "A box with this code already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	box, err := shipping.NewPackagingBox(
		input.Code,
		input.Name,
		input.InnerLengthCm,
		input.InnerWidthCm,
		input.InnerHeightCm,
		input.MaxWeightKg,
	)
	if err != nil {
		return nil, err
	}
	box.SortOrder = input.SortOrder

	if err := s.boxes.Save(ctx, box); err != nil {
		return nil, err
	}

	dto := toBoxDTO(box)
	return &dto, nil
}

// UpdateBox updates an existing box
func (s *BoxService) UpdateBox(ctx context.Context, id string, input UpdateBoxInput) (*BoxDTO, error) {
	boxID, err := parseID(id)
	if err != nil {
		return nil, shared.ErrInvalidInput
	}

	box, err := s.boxes.FindByID(ctx, boxID)
	if err != nil {
		return nil, err
	}

	if err := box.Update(input.Name, input.InnerLengthCm, input.InnerWidthCm, input.InnerHeightCm, input.MaxWeightKg); err != nil {
		return nil, err
	}
	box.SortOrder = input.SortOrder
	if input.Active != nil {
		box.Active = *input.Active
	}

	if err := s.boxes.Save(ctx, box); err != nil {
		return nil, err
	}

	dto := toBoxDTO(box)
	return &dto, nil
}

// GetBox returns a single box by id
func (s *BoxService) GetBox(ctx context.Context, id string) (*BoxDTO, error) {
	boxID, err := parseID(id)
	if err != nil {
		return nil, shared.ErrInvalidInput
	}
	box, err := s.boxes.FindByID(ctx, boxID)
	if err != nil {
		return nil, err
	}
	dto := toBoxDTO(box)
	return &dto, nil
}

// ListBoxes returns all boxes matching the filter
func (s *BoxService) ListBoxes(ctx context.Context, filter shared.Filter) (*BoxListResult, error) {
	boxes, err := s.boxes.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := &BoxListResult{
		Boxes: make([]BoxDTO, 0, len(boxes)),
		Total: len(boxes),
	}
	for i := range boxes {
		result.Boxes = append(result.Boxes, toBoxDTO(&boxes[i]))
	}
	return result, nil
}

// DeleteBox removes a box from the catalog
func (s *BoxService) DeleteBox(ctx context.Context, id string) error {
	boxID, err := parseID(id)
	if err != nil {
		return shared.ErrInvalidInput
	}
	return s.boxes.Delete(ctx, boxID)
}
