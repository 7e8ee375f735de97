package mal

import (
	"context"
	"encoding/json"
	"fmt"
)

// Discovery vía Jikan. Las dos operaciones son paginadas 1-indexed y
// devuelven lista vacía (no error) cuando la página ya no trae usuarios.

type recentUsersResponse struct {
	Data []struct {
		Username string `json:"username"`
	} `json:"data"`
}

// FetchRecentUsers lista usuarios recientemente activos a nivel global.
// Se usa (opcional) para cebar la cola antes del loop principal.
func (c *Client) FetchRecentUsers(ctx context.Context, page int) ([]string, error) {
	u := fmt.Sprintf("%s/users/recent?page=%d", c.jikanBaseURL, page)

	body, err := c.doRequest(ctx, u, discoveryRetry)
	if err != nil {
		return nil, fmt.Errorf("usuarios recientes (página %d): %w", page, err)
	}

	var resp recentUsersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("usuarios recientes (página %d): respuesta inválida: %w", page, err)
	}

	out := make([]string, 0, len(resp.Data))
	for _, d := range resp.Data {
		if d.Username != "" {
			out = append(out, d.Username)
		}
	}
	return out, nil
}

type userUpdatesResponse struct {
	Data []struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	} `json:"data"`
}

// FetchRecentActivityUsers lista usuarios que actualizaron un anime hace
// poco (GET /anime/{id}/userupdates). Es la fuente principal de discovery.
func (c *Client) FetchRecentActivityUsers(ctx context.Context, animeID, page int) ([]string, error) {
	u := fmt.Sprintf("%s/anime/%d/userupdates?page=%d", c.jikanBaseURL, animeID, page)

	body, err := c.doRequest(ctx, u, discoveryRetry)
	if err != nil {
		return nil, fmt.Errorf("actividad de anime %d (página %d): %w", animeID, page, err)
	}

	var resp userUpdatesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("actividad de anime %d (página %d): respuesta inválida: %w", animeID, page, err)
	}

	out := make([]string, 0, len(resp.Data))
	for _, d := range resp.Data {
		if d.User.Username != "" {
			out = append(out, d.User.Username)
		}
	}
	return out, nil
}
