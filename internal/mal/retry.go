package mal

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// Política de reintentos para una fuente externa. El fetch de ratings usa
// budget 5 / tope 20s; discovery es un apoyo, así que 4 / 10s.
type retryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	JitterMax   time.Duration
}

var ratingRetry = retryPolicy{
	MaxAttempts: 5,
	BaseDelay:   1 * time.Second,
	MaxDelay:    20 * time.Second,
	JitterMax:   350 * time.Millisecond,
}

var discoveryRetry = retryPolicy{
	MaxAttempts: 4,
	BaseDelay:   1 * time.Second,
	MaxDelay:    10 * time.Second,
	JitterMax:   350 * time.Millisecond,
}

// retryableStatus: estos códigos se reintentan, el resto es error permanente.
func retryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusMethodNotAllowed:
		return true
	}
	return status >= 500
}

// backoffDelay calcula la espera antes del reintento `attempt` (0-based).
// Si el server mandó un Retry-After válido (segundos) se respeta ese hint;
// si no, exponencial: base * 2^attempt con tope MaxDelay. El jitter se suma
// aparte en doRequest para que esto quede determinista y testeable.
func backoffDelay(p retryPolicy, attempt int, retryAfter string) time.Duration {
	if retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}

	delay := p.BaseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// doRequest hace GET con reintentos según la política. Devuelve el body
// solo en 200; agotados los intentos devuelve el último error.
func (c *Client) doRequest(ctx context.Context, url string, p retryPolicy) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		if c.clientID != "" {
			req.Header.Set("X-MAL-CLIENT-ID", c.clientID)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			// error de red: lo tratamos como transitorio
			lastErr = err
		} else {
			if resp.StatusCode == http.StatusOK {
				body, readErr := io.ReadAll(resp.Body)
				resp.Body.Close()
				if readErr != nil {
					return nil, readErr
				}
				return body, nil
			}

			retryAfter := resp.Header.Get("Retry-After")
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			if !retryableStatus(resp.StatusCode) {
				return nil, fmt.Errorf("status %d (no reintentable)", resp.StatusCode)
			}
			lastErr = fmt.Errorf("status %d", resp.StatusCode)

			if attempt+1 < p.MaxAttempts {
				wait := backoffDelay(p, attempt, retryAfter) + jitter(p)
				if err := sleepCtx(ctx, wait); err != nil {
					return nil, err
				}
				continue
			}
			break
		}

		if attempt+1 < p.MaxAttempts {
			wait := backoffDelay(p, attempt, "") + jitter(p)
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("reintentos agotados: %w", lastErr)
}

// jitter chico al azar para no sincronizarnos con otros clientes.
func jitter(p retryPolicy) time.Duration {
	if p.JitterMax <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(p.JitterMax)))
}

// sleepCtx duerme respetando la cancelación del contexto.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
