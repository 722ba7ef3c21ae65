package ingest

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/AngelCh415/acos-forecaster/internal/utils"
)

// DefaultBackoff gives three attempts, waiting ~100ms then ~200ms between them.
var DefaultBackoff = utils.NewBackoff(100*time.Millisecond, 2)

// GetJSONWithRetry retries transport failures and 5xx responses. Anything
// else (4xx, bad JSON) fails on the first attempt.
func GetJSONWithRetry(ctx context.Context, c HTTPClient, rawURL string, dst any, b utils.Backoff) error {
	var permanent error
	err := b.Do(ctx, func(i int) error {
		err := getJSON(ctx, c, rawURL, dst)
		if err == nil || retryable(err) {
			return err
		}
		permanent = err
		return nil
	})
	if permanent != nil {
		return permanent
	}
	return err
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}
	var ue *url.Error
	return errors.As(err, &ue)
}
