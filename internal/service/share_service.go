package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Kyle-Pantig/catalog/internal/clock"
	"github.com/Kyle-Pantig/catalog/internal/model"
	"github.com/Kyle-Pantig/catalog/internal/repository"
	"github.com/Kyle-Pantig/catalog/internal/sharecode"
	"gorm.io/gorm"
)

// Issued codes always expire exactly this long after creation. The create
// request accepts an expiry hint, but it is ignored; see the handler.
const ShareCodeTTL = 24 * time.Hour

// Access-denial reasons for viewer-facing code checks. All of them surface
// as 403.
var (
	ErrCodeInvalid = errors.New("invalid or inactive code")
	ErrCodeExpired = errors.New("code has expired")
	ErrCodeUsed    = errors.New("this share code has already been used")
)

type ValidationResult struct {
	Valid     bool
	Message   string
	CatalogID string
}

type ShareService interface {
	// Issue creates a new code for the catalog. A catalog may have any
	// number of outstanding codes.
	Issue(ctx context.Context, catalogID, ownerID string) (*model.ShareCode, error)
	// Redeem grants a viewer the catalog snapshot. First use stamps the
	// requester IP; later uses succeed only from that same IP.
	Redeem(ctx context.Context, code, requesterIP string) (*model.Catalog, error)
	// Validate applies Redeem's judgment without writing anything.
	Validate(ctx context.Context, code string) (*ValidationResult, error)
	// Revoke hard-deletes a code after checking the owner of its catalog.
	Revoke(ctx context.Context, codeID, ownerID string) error
}

type shareService struct {
	guard       CatalogService
	codeRepo    repository.ShareCodeRepository
	catalogRepo repository.CatalogRepository
	clk         clock.Clock
}

func NewShareService(guard CatalogService, codeRepo repository.ShareCodeRepository, catalogRepo repository.CatalogRepository, clk clock.Clock) ShareService {
	return &shareService{guard: guard, codeRepo: codeRepo, catalogRepo: catalogRepo, clk: clk}
}

func (s *shareService) Issue(ctx context.Context, catalogID, ownerID string) (*model.ShareCode, error) {
	if _, err := s.guard.VerifyOwner(ctx, catalogID, ownerID); err != nil {
		return nil, err
	}

	// Generate until the code is globally unique. Collisions on a 36^8
	// space are rare enough that this loop almost never repeats.
	var code string
	for {
		generated, err := sharecode.Generate(sharecode.DefaultLength)
		if err != nil {
			return nil, err
		}
		exists, err := s.codeRepo.CodeExists(ctx, generated)
		if err != nil {
			return nil, err
		}
		if !exists {
			code = generated
			break
		}
	}

	expiresAt := s.clk.Now().Add(ShareCodeTTL)
	sc := &model.ShareCode{
		Code:      code,
		CatalogID: catalogID,
		ExpiresAt: &expiresAt,
		IsActive:  true,
	}
	if err := s.codeRepo.Create(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *shareService) Redeem(ctx context.Context, code, requesterIP string) (*model.Catalog, error) {
	sc, err := s.codeRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeInvalid
		}
		return nil, err
	}
	if !sc.IsActive {
		return nil, ErrCodeInvalid
	}

	if sc.ExpiresAt != nil && clock.Normalize(*sc.ExpiresAt).Before(s.clk.Now()) {
		// Lazy deactivation: expiry is enforced here too, not only by the
		// background sweep.
		if err := s.codeRepo.Deactivate(ctx, sc.ID); err != nil {
			log.Printf("failed to deactivate expired share code %s: %v", sc.ID, err)
		}
		return nil, ErrCodeExpired
	}

	if sc.UsedAt != nil {
		// Same IP may come back (page refresh); anyone else is refused.
		if sc.UsedByIP == nil || *sc.UsedByIP != requesterIP {
			return nil, ErrCodeUsed
		}
	} else {
		if err := s.codeRepo.MarkUsed(ctx, sc.ID, s.clk.Now(), requesterIP); err != nil {
			return nil, err
		}
	}

	catalog, err := s.catalogRepo.FindByIDWithItems(ctx, sc.CatalogID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeInvalid
		}
		return nil, err
	}
	// Viewers never see the catalog's share codes.
	catalog.ShareCodes = []model.ShareCode{}
	return catalog, nil
}

func (s *shareService) Validate(ctx context.Context, code string) (*ValidationResult, error) {
	sc, err := s.codeRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidationResult{Valid: false, Message: "Invalid or inactive code"}, nil
		}
		return nil, err
	}
	if !sc.IsActive {
		return &ValidationResult{Valid: false, Message: "Invalid or inactive code"}, nil
	}
	if sc.ExpiresAt != nil && clock.Normalize(*sc.ExpiresAt).Before(s.clk.Now()) {
		// Same judgment as Redeem, but no deactivation write.
		return &ValidationResult{Valid: false, Message: "Code has expired"}, nil
	}
	if sc.UsedAt != nil {
		return &ValidationResult{Valid: false, Message: "This share code has already been used"}, nil
	}
	return &ValidationResult{Valid: true, CatalogID: sc.CatalogID}, nil
}

func (s *shareService) Revoke(ctx context.Context, codeID, ownerID string) error {
	sc, err := s.codeRepo.FindByID(ctx, codeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if _, err := s.guard.VerifyOwner(ctx, sc.CatalogID, ownerID); err != nil {
		return err
	}
	return s.codeRepo.Delete(ctx, sc.ID)
}
