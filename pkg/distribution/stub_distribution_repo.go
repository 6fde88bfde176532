package distribution

import "context"

type StubDistributionRepo struct {
	nextId int
	data   []Distribution
	// Credits records the points credited per user id by Store, so tests can
	// assert on balance changes without a database.
	Credits map[int]int
}

func NewStubDistributionRepo() *StubDistributionRepo {
	return &StubDistributionRepo{Credits: map[int]int{}}
}

func (s *StubDistributionRepo) Store(ctx context.Context, distribution Distribution) (int, error) {
	s.nextId++
	distribution.Id = s.nextId
	// most-recent-first, matching the SQL ordering
	s.data = append([]Distribution{distribution}, s.data...)
	s.Credits[distribution.UserId] += distribution.Points
	return distribution.Id, nil
}

func (s *StubDistributionRepo) GetAll(ctx context.Context) ([]Distribution, error) {
	return s.data, nil
}

func (s *StubDistributionRepo) GetForUser(ctx context.Context, userId int) ([]Distribution, error) {
	var matched []Distribution
	for _, distribution := range s.data {
		if distribution.UserId == userId {
			matched = append(matched, distribution)
		}
	}
	return matched, nil
}

func (s *StubDistributionRepo) Cleanup() {
	s.data = nil
	s.Credits = map[int]int{}
}
