package randomness

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"pass-breeding/internal/platform/httpclient"
	"pass-breeding/internal/ports/randomness"
)

var ErrUnknownSource = errors.New("unknown random source")

// NewResolver arma el randomness.Resolver usado por UpdateRandomService.
//
//	"crypto"          -> Crypto
//	"seeded:<n>"      -> Seeded(n)
//	"http(s)://host"  -> Remote con el api key de base
//
// Los Seeded se cachean por id para que el contador avance entre llamadas.
func NewResolver(remote httpclient.Config) randomness.Resolver {
	var mu sync.Mutex
	seeded := map[string]*Seeded{}

	return func(id string) (randomness.Source, error) {
		id = strings.TrimSpace(id)
		switch {
		case id == "crypto":
			return Crypto{}, nil

		case strings.HasPrefix(id, "seeded:"):
			mu.Lock()
			defer mu.Unlock()
			if s, ok := seeded[id]; ok {
				return s, nil
			}
			n, err := strconv.ParseUint(strings.TrimPrefix(id, "seeded:"), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrUnknownSource, id)
			}
			s := NewSeeded(n)
			seeded[id] = s
			return s, nil

		case strings.HasPrefix(id, "http://"), strings.HasPrefix(id, "https://"):
			cfg := remote
			cfg.BaseURL = id
			c, err := httpclient.New(cfg)
			if err != nil {
				return nil, err
			}
			return NewRemote(c), nil
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, id)
	}
}
