package route

import (
	"context"
	"errors"

	"github.com/hongjunna/toporider/internal/shared/geo"
)

var (
	ErrNoPoints       = errors.New("at least one point is required")
	ErrStraightPoints = errors.New("straight mode requires two points")
)

type Service struct {
	strategies map[Mode]Strategy
}

func NewService(straight, delegated Strategy) *Service {
	return &Service{strategies: map[Mode]Strategy{
		ModeStraight:  straight,
		ModeDelegated: delegated,
	}}
}

// Route validates req and hands it to the strategy for its mode.
func (s *Service) Route(ctx context.Context, req Request) (Response, error) {
	if len(req.Points) == 0 {
		return Response{}, ErrNoPoints
	}
	if req.Mode == ModeStraight && len(req.Points) < 2 {
		return Response{}, ErrStraightPoints
	}
	strategy, ok := s.strategies[req.Mode]
	if !ok {
		strategy = s.strategies[ModeDelegated]
	}
	return strategy.Route(ctx, req), nil
}

func (s *Service) SynthesizeStraightRoute(ctx context.Context, start, end geo.Coordinate) Response {
	return s.strategies[ModeStraight].Route(ctx, Request{Points: []geo.Coordinate{start, end}, Mode: ModeStraight})
}

func (s *Service) DelegateRoute(ctx context.Context, points []geo.Coordinate, profile string) Response {
	return s.strategies[ModeDelegated].Route(ctx, Request{Points: points, Profile: profile, Mode: ModeDelegated})
}
