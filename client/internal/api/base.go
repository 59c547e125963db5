package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	errs "github.com/mavinms/prism-project/client/internal/errors"
	"github.com/mavinms/prism-project/client/internal/types"
)

// getJSON issues a GET against baseURL+path and decodes a 200 response into out.
// Transport failures and non-200 statuses are returned as classified errors.
func getJSON(ctx context.Context, httpClient types.HTTPClient, baseURL, path, operation string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	url := baseURL + path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return errs.NewNetworkError(operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errs.FromResponse(resp, operation)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", operation, err)
	}
	return nil
}
