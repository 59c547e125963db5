package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	errs "github.com/mavinms/prism-project/client/internal/errors"
	"github.com/mavinms/prism-project/client/internal/types"
)

// GetTermMeta returns the stored metadata for name. The service answers with
// defaults when no record exists, so this never reports not-found.
func GetTermMeta(ctx context.Context, httpClient types.HTTPClient, baseURL, name string) (*types.TermMetadata, error) {
	if err := types.ValidateTermName(name); err != nil {
		return nil, err
	}
	var meta types.TermMetadata
	path := "/api/term/meta/" + url.PathEscape(name)
	if err := getJSON(ctx, httpClient, baseURL, path, "get term meta", &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// SetMeta writes the set fields of update for term. Fields left nil keep
// their stored value on the service.
func SetMeta(ctx context.Context, httpClient types.HTTPClient, baseURL, term string, update types.MetaUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := types.ValidateTermName(term); err != nil {
		return err
	}
	if err := types.ValidateMetaUpdate(update); err != nil {
		return err
	}
	body, err := json.Marshal(types.SetMetaRequest{Term: term, MetaUpdate: update})
	if err != nil {
		return err
	}
	endpoint := baseURL + "/api/term/meta"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return errs.NewNetworkError("set term meta", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return errs.FromResponse(resp, "set term meta")
	}

	var ack types.AckResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return fmt.Errorf("set term meta: decode response: %w", err)
	}
	if !ack.Success {
		return errs.NewHTTPError(resp.StatusCode, ack.Error, "set term meta")
	}
	return nil
}

// AllMeta returns one summary row per annotated term.
func AllMeta(ctx context.Context, httpClient types.HTTPClient, baseURL string) ([]types.MetaSummary, error) {
	var rows []types.MetaSummary
	if err := getJSON(ctx, httpClient, baseURL, "/api/meta/all", "all meta", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// MetaCounts returns the notes and difficulty tallies.
func MetaCounts(ctx context.Context, httpClient types.HTTPClient, baseURL string) (*types.MetaCounts, error) {
	var counts types.MetaCounts
	if err := getJSON(ctx, httpClient, baseURL, "/api/meta/counts", "meta counts", &counts); err != nil {
		return nil, err
	}
	return &counts, nil
}

// FilterByMeta returns the terms matching a metadata filter, ordered by name.
func FilterByMeta(ctx context.Context, httpClient types.HTTPClient, baseURL string, f types.Filter) ([]types.Term, error) {
	if err := types.ValidateFilter(f); err != nil {
		return nil, err
	}
	path := "/api/meta/filter/" + url.PathEscape(string(f.Type))
	if f.Type == types.FilterDifficulty {
		path += "/" + url.PathEscape(f.Param)
	}
	var terms []types.Term
	if err := getJSON(ctx, httpClient, baseURL, path, "filter by meta", &terms); err != nil {
		return nil, err
	}
	return terms, nil
}
