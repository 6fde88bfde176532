package suggestion

import (
	"context"
	"strconv"
)

// StubSuggestionRepo is an in-memory Repo for tests.
type StubSuggestionRepo struct {
	suggestions []Suggestion
	votes       map[int]map[int]bool
	nextId      int
}

func NewStubSuggestionRepo() *StubSuggestionRepo {
	return &StubSuggestionRepo{votes: make(map[int]map[int]bool), nextId: 1}
}

func (s *StubSuggestionRepo) Cleanup() {
	s.suggestions = nil
	s.votes = make(map[int]map[int]bool)
	s.nextId = 1
}

func (s *StubSuggestionRepo) Store(_ context.Context, suggestion Suggestion) (int, error) {
	suggestion.Id = s.nextId
	s.nextId++
	s.suggestions = append([]Suggestion{suggestion}, s.suggestions...)
	return suggestion.Id, nil
}

func (s *StubSuggestionRepo) GetAll(_ context.Context) ([]Suggestion, error) {
	suggestions := make([]Suggestion, 0, len(s.suggestions))
	for _, suggestion := range s.suggestions {
		suggestions = append(suggestions, s.withVotes(suggestion))
	}
	return suggestions, nil
}

func (s *StubSuggestionRepo) GetByUid(_ context.Context, uid string) (Suggestion, error) {
	for _, suggestion := range s.suggestions {
		if suggestion.Uid == uid {
			return s.withVotes(suggestion), nil
		}
	}
	return Suggestion{}, ErrNotFound
}

func (s *StubSuggestionRepo) withVotes(suggestion Suggestion) Suggestion {
	votes := make([]string, 0)
	for userId := range s.votes[suggestion.Id] {
		votes = append(votes, "user-"+strconv.Itoa(userId))
	}
	suggestion.Votes = votes
	return suggestion
}

func (s *StubSuggestionRepo) ToggleVote(_ context.Context, suggestionId int, userId int) (bool, error) {
	if s.votes[suggestionId] == nil {
		s.votes[suggestionId] = make(map[int]bool)
	}
	if s.votes[suggestionId][userId] {
		delete(s.votes[suggestionId], userId)
		return false, nil
	}
	s.votes[suggestionId][userId] = true
	return true, nil
}

func (s *StubSuggestionRepo) UpdateStatus(_ context.Context, suggestionId int, status Status) error {
	for i := range s.suggestions {
		if s.suggestions[i].Id == suggestionId {
			s.suggestions[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}
