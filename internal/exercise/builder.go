package exercise

import (
	"sort"
	"strconv"
	"strings"

	"github.com/verte-zerg/mindgym/internal/content"
	apperrors "github.com/verte-zerg/mindgym/internal/errors"
	"github.com/verte-zerg/mindgym/internal/guard"
	"github.com/verte-zerg/mindgym/internal/prng"
)

// Builder resolves exercise definitions against a fixed set of banks.
type Builder struct {
	banks    map[string]content.Bank
	catalog  content.Catalog
	maxShare float64
}

// Option configures a Builder.
type Option func(*Builder)

// WithCatalog sets the catalog used to resolve prompt_key and options_key.
func WithCatalog(c content.Catalog) Option {
	return func(b *Builder) {
		b.catalog = c
	}
}

// WithMaxShare overrides the index-bias threshold, guard.DefaultMaxShare by default.
// The value is used as given: 0 rejects any pool with an answer at position 0.
func WithMaxShare(share float64) Option {
	return func(b *Builder) {
		b.maxShare = share
	}
}

// NewBuilder returns a Builder over banks. The map is copied; banks are never modified.
func NewBuilder(banks map[string]content.Bank, opts ...Option) *Builder {
	copied := make(map[string]content.Bank, len(banks))
	for id, bank := range banks {
		copied[id] = bank
	}
	b := &Builder{
		banks:    copied,
		catalog:  content.MapCatalog{},
		maxShare: guard.DefaultMaxShare,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build resolves every definition and validates the result.
// Exercises are processed in sorted id order and the first error aborts the build.
func (b *Builder) Build(defs map[string]Definition) (Snapshot, error) {
	ids := make([]string, 0, len(defs))
	for id := range defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	configs := make(map[string]Config, len(defs))
	pools := make(map[string][]content.Round, len(defs))
	for _, id := range ids {
		cfg, err := b.buildOne(id, defs[id])
		if err != nil {
			return Snapshot{}, err
		}
		configs[id] = cfg
		pools[id] = cfg.Pool
	}
	if err := guard.AssertGlobalUniqueIDs(pools); err != nil {
		return Snapshot{}, err
	}
	return newSnapshot(configs), nil
}

func (b *Builder) buildOne(exerciseID string, def Definition) (Config, error) {
	bank, ok := b.banks[def.Selection.Bank]
	if !ok {
		return Config{}, apperrors.WithMetadata(apperrors.CodeUnknownBank, "exercise references unknown bank",
			map[string]string{"exercise": exerciseID, "bank": def.Selection.Bank})
	}
	tpl := def.Template
	if tpl == "" {
		tpl = bank.Template
	}
	if tpl != bank.Template {
		return Config{}, apperrors.WithMetadata(apperrors.CodeTemplateMismatch, "exercise template differs from bank template",
			map[string]string{"exercise": exerciseID, "bank": bank.ID, "template": string(tpl), "bank_template": string(bank.Template)})
	}

	items, err := resolveSelection(exerciseID, bank, def.Selection)
	if err != nil {
		return Config{}, err
	}
	pool, err := b.adapt(exerciseID, bank, items)
	if err != nil {
		return Config{}, err
	}
	if err := b.validate(exerciseID, tpl, pool); err != nil {
		return Config{}, err
	}

	total := def.RoundsTotal
	if total <= 0 {
		total = len(pool)
	}
	if len(pool) < total || total == 0 {
		return Config{}, apperrors.WithMetadata(apperrors.CodePoolTooSmall, "pool is smaller than rounds total",
			map[string]string{"exercise": exerciseID, "pool": strconv.Itoa(len(pool)), "rounds": strconv.Itoa(total)})
	}
	return Config{
		ExerciseID:  exerciseID,
		Title:       def.Title,
		Template:    tpl,
		Pool:        pool,
		RoundsTotal: total,
		SeedKey:     def.SeedKey,
	}, nil
}

func resolveSelection(exerciseID string, bank content.Bank, sel Selection) ([]content.Item, error) {
	meta := func(extra ...string) map[string]string {
		m := map[string]string{"exercise": exerciseID, "bank": bank.ID}
		for i := 0; i+1 < len(extra); i += 2 {
			m[extra[i]] = extra[i+1]
		}
		return m
	}
	if sel.Take < 0 || sel.Offset < 0 {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidSelection, "take and offset must not be negative",
			meta("take", strconv.Itoa(sel.Take), "offset", strconv.Itoa(sel.Offset)))
	}

	if len(sel.IDs) > 0 {
		if sel.Take > len(sel.IDs) {
			return nil, apperrors.WithMetadata(apperrors.CodeInsufficientBankItems, "selection lists fewer ids than it takes",
				meta("take", strconv.Itoa(sel.Take), "ids", strconv.Itoa(len(sel.IDs))))
		}
		byID := make(map[string]content.Item, len(bank.Items))
		for _, item := range bank.Items {
			byID[QualifyID(bank.ID, item.ID)] = item
		}
		ids := sel.IDs
		if sel.Take > 0 {
			ids = ids[:sel.Take]
		}
		out := make([]content.Item, 0, len(ids))
		for _, id := range ids {
			item, ok := byID[QualifyID(bank.ID, id)]
			if !ok {
				return nil, apperrors.WithMetadata(apperrors.CodeMissingBankItem, "selected id is not in bank",
					meta("round", QualifyID(bank.ID, id)))
			}
			out = append(out, item)
		}
		return out, nil
	}

	if sel.Offset > len(bank.Items) {
		return nil, apperrors.WithMetadata(apperrors.CodeInsufficientBankItems, "offset is past the end of the bank",
			meta("offset", strconv.Itoa(sel.Offset), "size", strconv.Itoa(len(bank.Items))))
	}
	end := len(bank.Items)
	if sel.Take > 0 {
		end = sel.Offset + sel.Take
	}
	if end > len(bank.Items) {
		return nil, apperrors.WithMetadata(apperrors.CodeInsufficientBankItems, "bank has fewer items than requested",
			meta("offset", strconv.Itoa(sel.Offset), "take", strconv.Itoa(sel.Take), "size", strconv.Itoa(len(bank.Items))))
	}
	return append([]content.Item(nil), bank.Items[sel.Offset:end]...), nil
}

// QualifyID returns id in "<bankId>::<id>" form. Already qualified ids are returned unchanged.
func QualifyID(bankID, id string) string {
	id = strings.TrimSpace(id)
	if strings.Contains(id, prng.KeySeparator) {
		return id
	}
	return prng.Key(bankID, id)
}
