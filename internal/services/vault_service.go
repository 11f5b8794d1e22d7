package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "daybook/internal/errors"
	"daybook/internal/logger"
	"daybook/internal/models"
	"daybook/internal/pagination"
	"daybook/internal/secretstore"
)

// vaultService handles the password vault. Item metadata lives in the
// database; the password and private notes only ever exist encrypted in
// the secret store, keyed per item.
type vaultService struct {
	db      *gorm.DB
	secrets secretstore.Store
}

// NewVaultService creates a new VaultServicer.
func NewVaultService(db *gorm.DB, secrets secretstore.Store) VaultServicer {
	return &vaultService{db: db, secrets: secrets}
}

// CreateItem creates a vault item and stores its secrets. If a secret
// write fails the metadata row is rolled back so no item can exist
// without its password.
func (s *vaultService) CreateItem(userID, title, username, url, category, password, notes string) (*models.VaultItem, error) {
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "item title is required")
	}
	if password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "item password is required")
	}

	item := &models.VaultItem{
		UserID:   userID,
		Title:    title,
		Username: username,
		URL:      url,
		Category: category,
	}

	if err := s.db.Create(item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.secrets.Save(password, item.PasswordKey()); err != nil {
		s.db.Unscoped().Delete(item)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if notes != "" {
		if err := s.secrets.Save(notes, item.NotesKey()); err != nil {
			s.secrets.Delete(item.PasswordKey())
			s.db.Unscoped().Delete(item)
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return item, nil
}

// GetUserItems retrieves a paginated list of vault items. Secrets are
// not included; use GetItemDetails for one item's full view.
func (s *vaultService) GetUserItems(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.VaultItem], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.VaultItem{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var items []models.VaultItem
	if err := base.Order("title ASC").Scopes(pagination.Paginate(page)).Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(items, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// getItem retrieves a vault item by ID for a specific user.
func (s *vaultService) getItem(userID, itemID string) (*models.VaultItem, error) {
	var item models.VaultItem
	if err := s.db.Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVaultItemNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &item, nil
}

// GetItemDetails returns the item joined with its decrypted secrets.
func (s *vaultService) GetItemDetails(userID, itemID string) (*VaultItemDetails, error) {
	item, err := s.getItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	password, err := s.secrets.Retrieve(item.PasswordKey())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrSecretUnavailable, err)
	}

	notes, err := s.secrets.Retrieve(item.NotesKey())
	if err != nil && !errors.Is(err, secretstore.ErrSecretNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrSecretUnavailable, err)
	}

	return &VaultItemDetails{Item: item, Password: password, Notes: notes}, nil
}

// UpdateItem updates the item's metadata and, when given, its secrets.
func (s *vaultService) UpdateItem(userID, itemID, title, username, url, category string, password, notes *string) (*models.VaultItem, error) {
	item, err := s.getItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if title != "" {
		updates["title"] = title
	}
	if username != "" {
		updates["username"] = username
	}
	if url != "" {
		updates["url"] = url
	}
	if category != "" {
		updates["category"] = category
	}
	if len(updates) > 0 {
		if err := s.db.Model(item).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	if password != nil && *password != "" {
		if err := s.secrets.Save(*password, item.PasswordKey()); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	if notes != nil {
		if *notes == "" {
			if err := s.secrets.Delete(item.NotesKey()); err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		} else if err := s.secrets.Save(*notes, item.NotesKey()); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return item, nil
}

// DeleteItem removes the item and its secrets. A secret delete failure
// is logged but does not keep the item alive: the blobs are unreachable
// without the item row and its keys.
func (s *vaultService) DeleteItem(userID, itemID string) error {
	item, err := s.getItem(userID, itemID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(item).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.secrets.Delete(item.PasswordKey()); err != nil {
		logger.Get().Warnw("failed to delete vault item password", "item_id", item.ID, "error", err)
	}
	if err := s.secrets.Delete(item.NotesKey()); err != nil {
		logger.Get().Warnw("failed to delete vault item notes", "item_id", item.ID, "error", err)
	}
	return nil
}
