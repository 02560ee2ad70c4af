package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SiteDirectory answers the two organizational questions scope resolution
// needs. Implementations must return "" / false for unknown codes instead
// of failing.
type SiteDirectory interface {
	// SiteLegalEntity returns the legal-entity code a site belongs to,
	// or "" when the site is unknown.
	SiteLegalEntity(ctx context.Context, siteCode string) (string, error)
	// CompanyExists reports whether a company record exists for the code.
	CompanyExists(ctx context.Context, code string) (bool, error)
}

// ResolveScope maps a definition level plus a (company, site) pair to the
// scope string used in the sequence counter key.
//
// At the legal-entity level the site's legal entity wins only when it
// exists as a company record; otherwise the caller-supplied company code
// is used. Unknown levels scope globally.
func ResolveScope(ctx context.Context, sites SiteDirectory, level DefinitionLevel, company, site string) (string, error) {
	switch level {
	case LevelGlobal:
		return "", nil
	case LevelSite:
		return site, nil
	case LevelLegalEntity:
		legalEntity, err := sites.SiteLegalEntity(ctx, site)
		if err != nil {
			return "", fmt.Errorf("failed to resolve legal entity for site %s: %w", site, err)
		}
		if legalEntity != "" {
			ok, err := sites.CompanyExists(ctx, legalEntity)
			if err != nil {
				return "", fmt.Errorf("failed to check company %s: %w", legalEntity, err)
			}
			if ok {
				return legalEntity, nil
			}
		}
		return company, nil
	default:
		return "", nil
	}
}

type pgSiteDirectory struct {
	pool *pgxpool.Pool
}

// NewSiteDirectory returns a SiteDirectory reading from the sites and
// companies tables.
func NewSiteDirectory(pool *pgxpool.Pool) SiteDirectory {
	return &pgSiteDirectory{pool: pool}
}

func (d *pgSiteDirectory) SiteLegalEntity(ctx context.Context, siteCode string) (string, error) {
	var legalEntity string
	err := d.pool.QueryRow(ctx,
		"SELECT legal_entity_code FROM sites WHERE site_code = $1", siteCode,
	).Scan(&legalEntity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to fetch site %s: %w", siteCode, err)
	}
	return legalEntity, nil
}

func (d *pgSiteDirectory) CompanyExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := d.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM companies WHERE company_code = $1)", code,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check company %s: %w", code, err)
	}
	return exists, nil
}
