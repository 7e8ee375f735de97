package mal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// PageSize es el máximo que permite la API de MAL por request de animelist.
const PageSize = 300

// UserRating es un ítem puntuado de la lista pública de un usuario.
type UserRating struct {
	AnimeID  int
	Title    string
	RawScore float64
}

// Client habla con la API oficial de MAL (ratings) y con Jikan (discovery).
type Client struct {
	http         *http.Client
	malBaseURL   string
	jikanBaseURL string
	clientID     string
	pageSize     int
	fetchDelay   time.Duration
}

func NewClient(malBaseURL, jikanBaseURL, clientID string, fetchDelay time.Duration) *Client {
	return &Client{
		http:         &http.Client{Timeout: 30 * time.Second},
		malBaseURL:   malBaseURL,
		jikanBaseURL: jikanBaseURL,
		clientID:     clientID,
		pageSize:     PageSize,
		fetchDelay:   fetchDelay,
	}
}

// respuesta de GET /users/{name}/animelist
type animeListResponse struct {
	Data []struct {
		Node struct {
			ID    int    `json:"id"`
			Title string `json:"title"`
		} `json:"node"`
		ListStatus struct {
			Score float64 `json:"score"`
		} `json:"list_status"`
	} `json:"data"`
}

// FetchRatings baja la lista completa de un usuario, paginando de a
// pageSize desde offset 0. Corta cuando una página viene corta o vacía.
// Solo conserva ítems con score > 0 (lo realmente puntuado).
func (c *Client) FetchRatings(ctx context.Context, username string) ([]UserRating, error) {
	var out []UserRating
	offset := 0

	for {
		u := fmt.Sprintf("%s/users/%s/animelist?fields=list_status&limit=%d&offset=%d&nsfw=true",
			c.malBaseURL, url.PathEscape(username), c.pageSize, offset)

		body, err := c.doRequest(ctx, u, ratingRetry)
		if err != nil {
			return nil, fmt.Errorf("animelist de %q (offset %d): %w", username, offset, err)
		}

		var page animeListResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("animelist de %q (offset %d): respuesta inválida: %w", username, offset, err)
		}

		for _, entry := range page.Data {
			if entry.ListStatus.Score <= 0 {
				continue
			}
			out = append(out, UserRating{
				AnimeID:  entry.Node.ID,
				Title:    entry.Node.Title,
				RawScore: entry.ListStatus.Score,
			})
		}

		// avanzamos por lo devuelto (no por lo filtrado)
		offset += len(page.Data)
		if len(page.Data) < c.pageSize {
			break
		}

		// throttle entre páginas para no castigar a la API
		if err := sleepCtx(ctx, c.fetchDelay); err != nil {
			return nil, err
		}
	}

	return out, nil
}
