package service

import (
	"context"
	"log"
	"time"

	"homepick/internal/repository"
	"homepick/pkg/comparison"
	"homepick/pkg/customerror"
	"homepick/pkg/property"
	"homepick/pkg/sharecode"
	"homepick/pkg/sharelink"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// maxCodeAttempts bounds collision retries; with a 62^8 keyspace hitting it
// means the generator is broken, not unlucky.
const maxCodeAttempts = 5

type ShareResult struct {
	Code      string `json:"short_code"`
	Url       string `json:"short_url"`
	ExpiresIn string `json:"expires_in"`
}

type ShareServiceI interface {
	Create(propertyIds []string, createdBy *uuid.UUID) (*ShareResult, error)
	Lookup(code string) (*sharelink.SharedComparison, []property.Summary, error)
}

type ShareService struct {
	shareRepo    repository.ShareLinkRepositoryI
	propertyRepo repository.PropertyRepositoryI
	mainUrl      string
	host         string
	port         string
	now          func() time.Time
}

func NewShareService(shareRepo repository.ShareLinkRepositoryI, propertyRepo repository.PropertyRepositoryI, mainUrl string, host string, port string) ShareServiceI {
	return &ShareService{
		shareRepo:    shareRepo,
		propertyRepo: propertyRepo,
		mainUrl:      mainUrl,
		host:         host,
		port:         port,
		now:          time.Now,
	}
}

func (s *ShareService) Create(propertyIds []string, createdBy *uuid.UUID) (*ShareResult, error) {
	if len(propertyIds) == 0 || len(propertyIds) > comparison.MaxItems {
		return nil, customerror.ErrBadInput
	}
	for _, id := range propertyIds {
		if id == "" {
			return nil, customerror.ErrBadInput
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	createdAt := s.now()
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		share := &sharelink.SharedComparison{
			Code:        sharecode.Generate(),
			PropertyIds: propertyIds,
			CreatedBy:   createdBy,
			CreatedAt:   createdAt,
			ExpiresAt:   createdAt.Add(sharelink.ShareTTL),
		}
		err := s.shareRepo.InsertShare(ctx, share)
		if err == customerror.ErrCodeTaken {
			continue
		}
		if err != nil {
			customErr := err.(customerror.CustomError)
			customErr.AppendModule("ShareService.Create")
			return nil, customErr
		}
		return &ShareResult{
			Code:      share.Code,
			Url:       s.mainUrl + "/compare/" + share.Code,
			ExpiresIn: "7 days",
		}, nil
	}
	return nil, customerror.NewError("ShareService.Create", s.host+":"+s.port, "could not find a free share code")
}

// Lookup resolves a share code. Expired entries are deleted on the spot and
// reported the same as absent ones, so the caller cannot tell "expired"
// apart from "never existed".
func (s *ShareService) Lookup(code string) (*sharelink.SharedComparison, []property.Summary, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	share, err := s.shareRepo.GetShare(ctx, code)
	if err == pgx.ErrNoRows {
		return nil, nil, pgx.ErrNoRows
	}
	if err != nil {
		customErr := err.(customerror.CustomError)
		customErr.AppendModule("ShareService.Lookup")
		return nil, nil, customErr
	}
	if s.now().After(share.ExpiresAt) {
		if err := s.shareRepo.DeleteShare(ctx, code); err != nil {
			log.Println(err.Error())
		}
		return nil, nil, pgx.ErrNoRows
	}
	properties, err := s.propertyRepo.GetProperties(ctx, share.PropertyIds)
	if err != nil {
		customErr := err.(customerror.CustomError)
		customErr.AppendModule("ShareService.Lookup")
		return nil, nil, customErr
	}
	return share, properties, nil
}
