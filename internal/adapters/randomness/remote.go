package randomness

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"pass-breeding/internal/platform/httpclient"
	"pass-breeding/internal/ports/randomness"
)

const randomPath = "/v1/random"

var ErrBadValue = errors.New("random service returned an invalid value")

// Remote pide el valor a un servicio externo.
type Remote struct {
	client *httpclient.Client
}

func NewRemote(client *httpclient.Client) *Remote {
	return &Remote{client: client}
}

var _ randomness.Source = (*Remote)(nil)

type randomResponse struct {
	Value string `json:"value"`
}

func (r *Remote) Random(ctx context.Context) (*big.Int, error) {
	if !r.client.IsConfigured() {
		return nil, errors.New("random service not configured")
	}
	var out randomResponse
	if err := r.client.DoJSON(ctx, http.MethodGet, randomPath, nil, nil, &out); err != nil {
		return nil, fmt.Errorf("random service: %w", err)
	}

	v, ok := new(big.Int).SetString(strings.TrimSpace(out.Value), 10)
	if !ok || v.Sign() < 0 || v.BitLen() > 256 {
		return nil, fmt.Errorf("%w: %q", ErrBadValue, out.Value)
	}
	return v, nil
}
