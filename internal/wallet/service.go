// Package wallet implements wallet management. Wallets are money containers
// transactions can be attributed to; the engine stores and resolves them but
// never aggregates across them.
package wallet

import (
	"errors"

	"gorm.io/gorm"

	"moneta/internal/database"
	apperrors "moneta/internal/errors"
	"moneta/internal/models"
)

// Service handles wallet business logic.
type Service struct {
	db   *gorm.DB
	gate *database.Gate
}

// NewService creates a wallet Service.
func NewService(db *gorm.DB, gate *database.Gate) *Service {
	return &Service{db: db, gate: gate}
}

// Create creates a new wallet. Marking it default clears the flag on every
// other wallet in the same commit.
func (s *Service) Create(name, currency string, isDefault bool) (*models.Wallet, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidData, "wallet name is required")
	}
	if len(currency) != 3 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidData, "currency must be a 3-letter ISO 4217 code")
	}

	wallet := &models.Wallet{
		Name:      name,
		Currency:  currency,
		IsDefault: isDefault,
	}

	err := s.gate.Write(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			if isDefault {
				if err := tx.Model(&models.Wallet{}).
					Where("is_default = ?", true).
					Update("is_default", false).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrSaveFailed, err)
				}
			}
			if err := tx.Create(wallet).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrSaveFailed, err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

// GetByID retrieves a wallet by ID.
func (s *Service) GetByID(id string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := s.gate.Read(func() error {
		return s.db.Where("id = ?", id).First(&wallet).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}
	return &wallet, nil
}

// List retrieves all wallets, default wallet first.
func (s *Service) List() ([]models.Wallet, error) {
	var wallets []models.Wallet
	err := s.gate.Read(func() error {
		return s.db.Order("is_default DESC, name ASC").Find(&wallets).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, err)
	}
	return wallets, nil
}

// SetDefault marks a wallet as the default one, clearing the flag elsewhere.
func (s *Service) SetDefault(id string) (*models.Wallet, error) {
	wallet, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	err = s.gate.Write(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Wallet{}).
				Where("is_default = ?", true).
				Update("is_default", false).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrSaveFailed, err)
			}
			if err := tx.Model(wallet).Update("is_default", true).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrSaveFailed, err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	wallet.IsDefault = true
	return wallet, nil
}

// Delete removes a wallet. Transactions that reference it keep existing with
// their wallet reference nullified, in the same commit.
func (s *Service) Delete(id string) error {
	wallet, err := s.GetByID(id)
	if err != nil {
		return err
	}

	return s.gate.Write(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Transaction{}).
				Where("wallet_id = ?", id).
				Update("wallet_id", nil).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrDeleteFailed, err)
			}
			if err := tx.Delete(wallet).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrDeleteFailed, err)
			}
			return nil
		})
	})
}
