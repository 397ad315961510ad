package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/addonaccounts/internal/common"
	"github.com/dmitrijs2005/addonaccounts/internal/dbx"
	"github.com/dmitrijs2005/addonaccounts/internal/locale"
	"github.com/dmitrijs2005/addonaccounts/internal/server/models"
)

// Profile holds the facts derived from a user record for display.
type Profile struct {
	UserID                  int64
	Username                string
	WelcomeName             string
	URLPath                 string
	PictureURL              string
	IsStaff                 bool
	IsSuperuser             bool
	FxaMigrated             bool
	HasAnonymousUsername    bool
	HasAnonymousDisplayName bool
	Bio                     string
	BioLocale               string
}

// Profile loads userID and derives its display facts. The bio is resolved
// for the locale active in ctx, falling back to the user's own language.
func (s *UserService) Profile(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.loadUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	p := &Profile{
		UserID:                  user.ID,
		Username:                user.Username,
		WelcomeName:             user.WelcomeName(),
		URLPath:                 user.URLPath(locale.FromContext(ctx), s.defaultApp),
		IsStaff:                 user.IsStaff(),
		IsSuperuser:             user.IsSuperuser(),
		FxaMigrated:             user.FxaMigrated(),
		HasAnonymousUsername:    user.HasAnonymousUsername(),
		HasAnonymousDisplayName: user.HasAnonymousDisplayName(),
	}

	if s.pictures != nil {
		if p.PictureURL, err = s.pictures.PictureURL(ctx, user); err != nil {
			return nil, err
		}
	} else {
		p.PictureURL = user.PictureURL(s.mediaURL, s.staticURL)
	}

	if user.BioID != nil {
		values, err := s.repomanager.Translations(s.db).Get(ctx, *user.BioID)
		if err != nil {
			return nil, err
		}
		p.Bio, p.BioLocale, _ = locale.Resolve(values, locale.FromContext(ctx), user.Lang)
	}
	return p, nil
}

// SetBio stores the bio of userID for lang, allocating a translation the
// first time.
func (s *UserService) SetBio(ctx context.Context, userID int64, lang, bio string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Users(tx)
		user, err := users.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		var id int64
		if user.BioID != nil {
			id = *user.BioID
		}
		id, err = s.repomanager.Translations(tx).Set(ctx, id, lang, bio)
		if err != nil {
			return err
		}
		if user.BioID != nil {
			return nil
		}
		user.BioID = &id
		return users.Save(ctx, user)
	})
}

// RemoveLocale deletes one localization of the user's bio. Users without
// a bio are left alone.
func (s *UserService) RemoveLocale(ctx context.Context, userID int64, lang string) error {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.BioID == nil {
		return nil
	}
	_, err = s.repomanager.Translations(s.db).DeleteLocale(ctx, *user.BioID, lang)
	return err
}

// PictureUploadURL returns a presigned URL the client PUTs a new picture of
// userID to. The picture is shown once PictureUploaded records it.
func (s *UserService) PictureUploadURL(ctx context.Context, userID int64) (string, error) {
	if s.uploads == nil {
		return "", fmt.Errorf("%w: picture storage is not configured", common.ErrorInternal)
	}
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.uploads.UploadURL(ctx, user)
}

// PictureUploaded records that userID now has a picture of contentType.
func (s *UserService) PictureUploaded(ctx context.Context, userID int64, contentType string) error {
	if contentType != pictureContentType {
		return fmt.Errorf("%w: unsupported picture type %q", common.ErrorValidation, contentType)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Users(tx)
		user, err := users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		user.PictureType = contentType
		return users.Save(ctx, user)
	})
}

// UpdateEmail changes the email of userID and keeps the previous address in
// the user's history.
func (s *UserService) UpdateEmail(ctx context.Context, userID int64, email string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Users(tx)
		user, err := users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user.Email != nil && *user.Email == email {
			return nil
		}
		if user.Email != nil && *user.Email != "" {
			if err := users.RecordEmail(ctx, user.ID, *user.Email); err != nil {
				return err
			}
		}
		if email == "" {
			user.Email = nil
		} else {
			user.Email = &email
		}
		return users.Save(ctx, user)
	})
}

// FindUsers returns the users that have or once had email.
func (s *UserService) FindUsers(ctx context.Context, email string) ([]*models.User, error) {
	return s.repomanager.Users(s.db).FindByEmail(ctx, email)
}

// LookupByEmail resolves a user from their current email address.
func (s *UserService) LookupByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("email: %w", common.ErrFieldRequired)
	}
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%w: no user with that email", common.ErrorValidation)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Anonymize strips the personal data of userID and revokes its sessions.
func (s *UserService) Anonymize(ctx context.Context, userID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Users(tx)
		user, err := users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		user.Anonymize()
		if err := users.Save(ctx, user); err != nil {
			return err
		}
		if err := users.DisablePassword(ctx, userID, user.Password); err != nil {
			return err
		}
		return s.repomanager.RefreshTokens(tx).DeleteForUser(ctx, userID)
	})
}

var specialCollectionNames = map[models.CollectionType]string{
	models.CollectionMobile:    "My Mobile Add-ons",
	models.CollectionFavorites: "My Favorite Add-ons",
}

func (s *UserService) specialCollection(ctx context.Context, userID int64, typ models.CollectionType) (*models.Collection, error) {
	repo := s.repomanager.Collections(s.db)
	c, err := repo.GetForAuthor(ctx, userID, typ)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}
	return repo.Create(ctx, &models.Collection{
		AuthorID: &userID,
		Name:     specialCollectionNames[typ],
		Slug:     typ.Slug(),
		Type:     typ,
	})
}

// MobileCollection returns the user's mobile collection, creating it on
// first use.
func (s *UserService) MobileCollection(ctx context.Context, userID int64) (*models.Collection, error) {
	return s.specialCollection(ctx, userID, models.CollectionMobile)
}

// FavoritesCollection returns the user's favorites collection, creating it
// on first use.
func (s *UserService) FavoritesCollection(ctx context.Context, userID int64) (*models.Collection, error) {
	return s.specialCollection(ctx, userID, models.CollectionFavorites)
}

func (s *UserService) collectionAddons(ctx context.Context, userID int64, typ models.CollectionType) ([]int64, error) {
	c, err := s.specialCollection(ctx, userID, typ)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Collections(s.db).AddonIDs(ctx, c.ID)
}

func (s *UserService) MobileAddons(ctx context.Context, userID int64) ([]int64, error) {
	return s.collectionAddons(ctx, userID, models.CollectionMobile)
}

func (s *UserService) FavoriteAddons(ctx context.Context, userID int64) ([]int64, error) {
	return s.collectionAddons(ctx, userID, models.CollectionFavorites)
}

// Watching lists the collections userID watches.
func (s *UserService) Watching(ctx context.Context, userID int64) ([]int64, error) {
	return s.repomanager.Collections(s.db).WatchedBy(ctx, userID)
}

// AddonsListed returns the add-ons the user is publicly credited on.
func (s *UserService) AddonsListed(ctx context.Context, userID int64) ([]models.Addon, error) {
	return s.repomanager.Addons(s.db).ListedForUser(ctx, userID)
}

// MyAddons returns the n most recent add-ons of userID.
func (s *UserService) MyAddons(ctx context.Context, userID int64, n int, withUnlisted bool) ([]models.Addon, error) {
	if n <= 0 {
		n = 8
	}
	return s.repomanager.Addons(s.db).ForUser(ctx, userID, n, withUnlisted)
}

// Reviews returns the reviews written by userID without developer replies.
func (s *UserService) Reviews(ctx context.Context, userID int64) ([]models.Review, error) {
	return s.repomanager.Reviews(s.db).ForUser(ctx, userID)
}
