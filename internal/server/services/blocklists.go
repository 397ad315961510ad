package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/addonaccounts/internal/common"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/repomanager"
)

// BlocklistService manages the names, email domains and passwords refused
// at registration.
type BlocklistService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewBlocklistService(db *sql.DB, m repomanager.RepositoryManager) *BlocklistService {
	return &BlocklistService{db: db, repomanager: m}
}

func (s *BlocklistService) NameBlocked(ctx context.Context, name string) (bool, error) {
	return s.repomanager.Blocklists(s.db).NameBlocked(ctx, name)
}

func (s *BlocklistService) EmailDomainBlocked(ctx context.Context, domain string) (bool, error) {
	return s.repomanager.Blocklists(s.db).EmailDomainBlocked(ctx, strings.ToLower(domain))
}

func (s *BlocklistService) PasswordBlocked(ctx context.Context, password string) (bool, error) {
	return s.repomanager.Blocklists(s.db).PasswordBlocked(ctx, password)
}

func (s *BlocklistService) BlockName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name: %w", common.ErrFieldRequired)
	}
	return s.repomanager.Blocklists(s.db).AddName(ctx, name)
}

func (s *BlocklistService) BlockEmailDomain(ctx context.Context, domain string) error {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return fmt.Errorf("domain: %w", common.ErrFieldRequired)
	}
	return s.repomanager.Blocklists(s.db).AddEmailDomain(ctx, domain)
}

func (s *BlocklistService) BlockPassword(ctx context.Context, password string) error {
	if password == "" {
		return fmt.Errorf("password: %w", common.ErrFieldRequired)
	}
	return s.repomanager.Blocklists(s.db).AddPassword(ctx, password)
}
