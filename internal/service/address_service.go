package service

import (
	"context"
	"strings"
	"time"

	"campus-market/internal/models"
	"campus-market/internal/repository"

	"github.com/google/uuid"
)

type AddressInput struct {
	Recipient string
	Phone     string
	Detail    string
	IsDefault bool
}

type AddressPatch struct {
	Recipient *string
	Phone     *string
	Detail    *string
	IsDefault *bool
}

type AddressService interface {
	ListAddresses(ctx context.Context) ([]models.Address, error)
	CreateAddress(ctx context.Context, in AddressInput) (*models.Address, error)
	UpdateAddress(ctx context.Context, addressID uuid.UUID, patch AddressPatch) (*models.Address, error)
	DeleteAddress(ctx context.Context, addressID uuid.UUID) error
	SetDefault(ctx context.Context, addressID uuid.UUID) (*models.Address, error)
}

type addressService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewAddressService(repo *repository.Repository) AddressService {
	return &addressService{repo: repo, now: time.Now}
}

func (s *addressService) ListAddresses(ctx context.Context) ([]models.Address, error) {
	userID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.Addresses.ListByUser(ctx, userID)
}

func (s *addressService) CreateAddress(ctx context.Context, in AddressInput) (*models.Address, error) {
	userID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	recipient := strings.TrimSpace(in.Recipient)
	phone := strings.TrimSpace(in.Phone)
	detail := strings.TrimSpace(in.Detail)
	if recipient == "" || phone == "" || detail == "" {
		return nil, ErrRecipientFields
	}

	now := s.now()
	a := &models.Address{
		UserID:    userID,
		Recipient: recipient,
		Phone:     phone,
		Detail:    detail,
		IsDefault: in.IsDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if a.IsDefault {
			if err := tx.Addresses.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		return tx.Addresses.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *addressService) UpdateAddress(ctx context.Context, addressID uuid.UUID, patch AddressPatch) (*models.Address, error) {
	userID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	a, err := s.getOwned(ctx, addressID, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if patch.Recipient != nil {
		v := strings.TrimSpace(*patch.Recipient)
		if v == "" {
			return nil, ErrRecipientFields
		}
		fields["recipient"] = v
	}
	if patch.Phone != nil {
		v := strings.TrimSpace(*patch.Phone)
		if v == "" {
			return nil, ErrRecipientFields
		}
		fields["phone"] = v
	}
	if patch.Detail != nil {
		v := strings.TrimSpace(*patch.Detail)
		if v == "" {
			return nil, ErrRecipientFields
		}
		fields["detail"] = v
	}
	if patch.IsDefault != nil {
		fields["is_default"] = *patch.IsDefault
	}

	if len(fields) == 0 {
		return a, nil
	}
	fields["updated_at"] = s.now()

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if v, ok := fields["is_default"]; ok && v.(bool) {
			if err := tx.Addresses.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		return tx.Addresses.UpdateFields(ctx, addressID, fields)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Addresses.GetByID(ctx, addressID)
}

func (s *addressService) DeleteAddress(ctx context.Context, addressID uuid.UUID) error {
	userID, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	if _, err := s.getOwned(ctx, addressID, userID); err != nil {
		return err
	}
	// Orders keep a ship-to snapshot; the FK is SET NULL, so hard delete is
	// safe for the ledger.
	_, err = s.repo.Addresses.Delete(ctx, addressID)
	return err
}

func (s *addressService) SetDefault(ctx context.Context, addressID uuid.UUID) (*models.Address, error) {
	isDefault := true
	return s.UpdateAddress(ctx, addressID, AddressPatch{IsDefault: &isDefault})
}

func (s *addressService) getOwned(ctx context.Context, addressID, userID uuid.UUID) (*models.Address, error) {
	a, err := s.repo.Addresses.GetByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAddressNotFound
	}
	if a.UserID != userID {
		return nil, ErrNotAddressOwner
	}
	return a, nil
}
