package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/spec-kit/cms-console/pkg/util"
)

// FAQ is a question/answer entry. Fields the console does not interpret
// are carried through unchanged when the entry is written back.
type FAQ struct {
	ID    string
	Order int

	fields map[string]json.RawMessage
}

func (f *FAQ) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	f.fields = fields
	f.ID = strings.Trim(string(fields["id"]), `"`)
	if f.ID == "null" {
		f.ID = ""
	}
	if raw, ok := fields["order"]; ok {
		if err := json.Unmarshal(raw, &f.Order); err != nil {
			return fmt.Errorf("faq %s: order: %w", f.ID, err)
		}
	}
	return nil
}

func (f FAQ) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(f.fields)+2)
	for k, v := range f.fields {
		out[k] = v
	}
	order, err := json.Marshal(f.Order)
	if err != nil {
		return nil, err
	}
	out["order"] = order
	if _, ok := out["id"]; !ok && f.ID != "" {
		id, _ := json.Marshal(f.ID)
		out["id"] = id
	}
	return json.Marshal(out)
}

type faqList struct {
	Success bool  `json:"success"`
	Data    []FAQ `json:"data"`
}

// FAQService manages FAQ ordering.
type FAQService struct {
	api    Backend
	logger *zap.Logger
}

// NewFAQService creates the service.
func NewFAQService(api Backend, logger *zap.Logger) *FAQService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FAQService{api: api, logger: logger.Named("faq")}
}

// List returns the FAQs in backend order.
func (s *FAQService) List(ctx context.Context) ([]FAQ, error) {
	var reply faqList
	if err := s.api.Get(ctx, "/qna/get-faqs", &reply); err != nil {
		return nil, upstream(err, "Failed to load FAQs")
	}
	return reply.Data, nil
}

// Reorder moves the entry at index from to index to within ids, the order
// the operator sees, then renumbers every entry 1..n and writes them back
// one at a time. The first failed write stops the sequence; entries
// already written keep their new order.
func (s *FAQService) Reorder(ctx context.Context, ids []string, from, to int) ([]FAQ, error) {
	if from < 0 || from >= len(ids) || to < 0 || to >= len(ids) {
		return nil, apperrors.NewValidationError("reorder index out of range", map[string]any{"from": from, "to": to, "count": len(ids)})
	}

	current, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]FAQ, len(current))
	for _, f := range current {
		byID[f.ID] = f
	}

	ordered := make([]FAQ, 0, len(ids))
	for _, id := range ids {
		f, ok := byID[id]
		if !ok {
			return nil, apperrors.NewNotFound("faq "+id, nil)
		}
		ordered = append(ordered, f)
	}

	moved := ordered[from]
	ordered = append(ordered[:from], ordered[from+1:]...)
	ordered = append(ordered[:to], append([]FAQ{moved}, ordered[to:]...)...)

	for i := range ordered {
		ordered[i].Order = i + 1
	}
	for _, f := range ordered {
		if err := s.api.Put(ctx, "/qna/update-faq/"+url.PathEscape(f.ID), f, nil); err != nil {
			s.logger.Warn("faq reorder stopped", zap.String("id", f.ID), zap.Error(err))
			return ordered, upstream(err, "Failed to update FAQ order")
		}
	}
	return ordered, nil
}
