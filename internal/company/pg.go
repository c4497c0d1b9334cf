package company

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikhilbhutani/chatbot-backend/internal/models"
)

const companyColumns = `id, site_id, name, domain, description, primary_color, greeting,
	assistant_id, model, temperature, max_tokens, system_prompt,
	contact_info, knowledge_base, faqs, sms_enabled, sms_phone_number,
	active, created_at, updated_at`

// PGStore is the Postgres-backed Store.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func scanCompany(row pgx.Row) (*models.Company, error) {
	var c models.Company
	err := row.Scan(
		&c.ID, &c.SiteID, &c.Name, &c.Domain, &c.Description, &c.PrimaryColor, &c.Greeting,
		&c.AssistantID, &c.Model, &c.Temperature, &c.MaxTokens, &c.SystemPrompt,
		&c.ContactInfo, &c.KnowledgeBase, &c.FAQs, &c.SMSEnabled, &c.SMSPhone,
		&c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan company: %w", err)
	}
	return &c, nil
}

func (s *PGStore) Create(ctx context.Context, params CreateParams) (*models.Company, error) {
	params.setDefaults()

	row := s.db.QueryRow(ctx, `
		INSERT INTO companies (site_id, name, domain, description, primary_color, greeting,
			assistant_id, model, temperature, max_tokens, system_prompt,
			contact_info, knowledge_base, faqs, sms_enabled, sms_phone_number, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, true)
		RETURNING `+companyColumns,
		params.SiteID, params.Name, params.Domain, params.Description,
		params.PrimaryColor, params.Greeting,
		params.AssistantID, params.Model, params.Temperature, params.MaxTokens, params.SystemPrompt,
		params.ContactInfo, params.KnowledgeBase, params.FAQs,
		params.SMSEnabled, params.SMSPhone,
	)

	c, err := scanCompany(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: %s", ErrConflict, params.SiteID)
		}
		return nil, fmt.Errorf("create company: %w", err)
	}
	return c, nil
}

func (s *PGStore) Get(ctx context.Context, siteID string) (*models.Company, error) {
	row := s.db.QueryRow(ctx,
		"SELECT "+companyColumns+" FROM companies WHERE site_id = $1", siteID)
	return scanCompany(row)
}

func (s *PGStore) GetActive(ctx context.Context, siteID string) (*models.Company, error) {
	row := s.db.QueryRow(ctx,
		"SELECT "+companyColumns+" FROM companies WHERE site_id = $1 AND active = true", siteID)
	return scanCompany(row)
}

func (s *PGStore) List(ctx context.Context, activeOnly bool) ([]*models.Company, error) {
	q := "SELECT " + companyColumns + " FROM companies"
	if activeOnly {
		q += " WHERE active = true"
	}
	q += " ORDER BY id"

	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var out []*models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PGStore) Count(ctx context.Context, activeOnly bool) (int, error) {
	q := "SELECT count(*) FROM companies"
	if activeOnly {
		q += " WHERE active = true"
	}
	var n int
	if err := s.db.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return n, nil
}

func (s *PGStore) Update(ctx context.Context, siteID string, patch *Patch) (*models.Company, error) {
	var set []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Name.Set {
		add("name", textArg(patch.Name))
	}
	if patch.Domain.Set {
		add("domain", textArg(patch.Domain))
	}
	if patch.Description.Set {
		add("description", textArg(patch.Description))
	}
	if patch.PrimaryColor.Set {
		add("primary_color", textArg(patch.PrimaryColor))
	}
	if patch.Greeting.Set {
		add("greeting", textArg(patch.Greeting))
	}
	if patch.AssistantID.Set {
		// assistant_id is the one truly nullable column; null clears it
		if patch.AssistantID.Null {
			add("assistant_id", nil)
		} else {
			add("assistant_id", patch.AssistantID.Value)
		}
	}
	if patch.Model.Set {
		add("model", textArg(patch.Model))
	}
	if patch.Temperature.Set {
		add("temperature", textArg(patch.Temperature))
	}
	if patch.MaxTokens.Set {
		v := patch.MaxTokens.Value
		if patch.MaxTokens.Null {
			v = 0
		}
		add("max_tokens", v)
	}
	if patch.SystemPrompt.Set {
		add("system_prompt", textArg(patch.SystemPrompt))
	}
	if patch.ContactInfo.Set {
		v := patch.ContactInfo.Value
		if patch.ContactInfo.Null || v == nil {
			v = map[string]any{}
		}
		add("contact_info", v)
	}
	if patch.KnowledgeBase.Set {
		add("knowledge_base", textArg(patch.KnowledgeBase))
	}
	if patch.FAQs.Set {
		v := patch.FAQs.Value
		if patch.FAQs.Null || v == nil {
			v = []map[string]any{}
		}
		add("faqs", v)
	}
	if patch.SMSEnabled.Set {
		add("sms_enabled", patch.SMSEnabled.Value && !patch.SMSEnabled.Null)
	}
	if patch.SMSPhone.Set {
		add("sms_phone_number", textArg(patch.SMSPhone))
	}
	if patch.Active.Set {
		add("active", patch.Active.Value && !patch.Active.Null)
	}

	set = append(set, "updated_at = now()")

	args = append(args, siteID)
	q := fmt.Sprintf("UPDATE companies SET %s WHERE site_id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args), companyColumns)

	return scanCompany(s.db.QueryRow(ctx, q, args...))
}

func (s *PGStore) Activate(ctx context.Context, siteID string) (*models.Company, error) {
	return s.setActive(ctx, siteID, true)
}

func (s *PGStore) Deactivate(ctx context.Context, siteID string) (*models.Company, error) {
	return s.setActive(ctx, siteID, false)
}

func (s *PGStore) setActive(ctx context.Context, siteID string, active bool) (*models.Company, error) {
	row := s.db.QueryRow(ctx,
		"UPDATE companies SET active = $1, updated_at = now() WHERE site_id = $2 RETURNING "+companyColumns,
		active, siteID)
	return scanCompany(row)
}

func (s *PGStore) Delete(ctx context.Context, siteID string, permanent bool) error {
	if !permanent {
		_, err := s.Deactivate(ctx, siteID)
		return err
	}

	tag, err := s.db.Exec(ctx, "DELETE FROM companies WHERE site_id = $1", siteID)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, siteID)
	}
	return nil
}

func (s *PGStore) UpdateKnowledge(ctx context.Context, siteID, text string) (*models.Company, error) {
	row := s.db.QueryRow(ctx,
		"UPDATE companies SET knowledge_base = $1, updated_at = now() WHERE site_id = $2 RETURNING "+companyColumns,
		text, siteID)
	return scanCompany(row)
}

func (s *PGStore) SetAssistantID(ctx context.Context, siteID, assistantID string) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE companies SET assistant_id = $1, updated_at = now() WHERE site_id = $2",
		assistantID, siteID)
	if err != nil {
		return fmt.Errorf("set assistant_id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, siteID)
	}
	return nil
}

// textArg maps an explicit null on a NOT NULL text column to the empty string.
func textArg(o Opt[string]) string {
	if o.Null {
		return ""
	}
	return o.Value
}
