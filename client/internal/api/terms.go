package api

import (
	"context"
	"fmt"
	"net/url"

	errs "github.com/mavinms/prism-project/client/internal/errors"
	"github.com/mavinms/prism-project/client/internal/types"
)

// ListTerms returns every catalog term (name and subject only).
func ListTerms(ctx context.Context, httpClient types.HTTPClient, baseURL string) ([]types.Term, error) {
	var terms []types.Term
	if err := getJSON(ctx, httpClient, baseURL, "/api/terms", "list terms", &terms); err != nil {
		return nil, err
	}
	return terms, nil
}

// ListSubjects returns subjects with their term counts.
func ListSubjects(ctx context.Context, httpClient types.HTTPClient, baseURL string) ([]types.Subject, error) {
	var subjects []types.Subject
	if err := getJSON(ctx, httpClient, baseURL, "/api/subjects", "list subjects", &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

// TermsBySubject returns the terms filed under subject.
func TermsBySubject(ctx context.Context, httpClient types.HTTPClient, baseURL, subject string) ([]types.Term, error) {
	var terms []types.Term
	path := "/api/terms/subject/" + url.PathEscape(subject)
	if err := getJSON(ctx, httpClient, baseURL, path, "terms by subject", &terms); err != nil {
		return nil, err
	}
	return terms, nil
}

// GetTerm returns the full term record together with its metadata.
// The service records the view, so last_viewed moves forward on every call.
// A 404 is reported as types.ErrNotFound.
func GetTerm(ctx context.Context, httpClient types.HTTPClient, baseURL, name string) (*types.TermDetail, error) {
	if err := types.ValidateTermName(name); err != nil {
		return nil, err
	}
	var detail types.TermDetail
	path := "/api/term/" + url.PathEscape(name)
	if err := getJSON(ctx, httpClient, baseURL, path, "get term", &detail); err != nil {
		if errs.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %q: %w", types.ErrNotFound, name, err)
		}
		return nil, err
	}
	return &detail, nil
}
