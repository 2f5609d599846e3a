package passes

import (
	"context"
	"fmt"
	"strings"
)

// TokenURI = baseURI/singerId/class/id/genes.
func (s *Service) TokenURI(ctx context.Context, id PassID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	return BuildURI(s.settings.BaseURI, p), nil
}

func BuildURI(base string, p Pass) string {
	base = strings.TrimRight(base, "/")
	return fmt.Sprintf("%s/%d/%d/%d/%d", base, p.SingerID, p.Class, p.ID, p.Genes)
}
