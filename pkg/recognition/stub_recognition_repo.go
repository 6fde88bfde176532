package recognition

import (
	"context"
	"strconv"
	"time"
)

// StubRecognitionRepository is an in-memory Repository for tests.
type StubRecognitionRepository struct {
	recognitions []Recognition
	kudos        map[int]map[int]bool
	nextId       int
	// Credits tracks points credited to recipients, keyed by user id.
	Credits map[int]int
}

func NewStubRecognitionRepository() *StubRecognitionRepository {
	return &StubRecognitionRepository{
		kudos:   make(map[int]map[int]bool),
		nextId:  1,
		Credits: make(map[int]int),
	}
}

func (s *StubRecognitionRepository) Cleanup() {
	s.recognitions = nil
	s.kudos = make(map[int]map[int]bool)
	s.nextId = 1
	s.Credits = make(map[int]int)
}

func (s *StubRecognitionRepository) Store(_ context.Context, recognition Recognition) (int, error) {
	recognition.Id = s.nextId
	s.nextId++
	s.recognitions = append([]Recognition{recognition}, s.recognitions...)
	s.Credits[recognition.RecipientId] += recognition.Points
	return recognition.Id, nil
}

func (s *StubRecognitionRepository) GetFeed(_ context.Context, limit int) ([]Recognition, error) {
	feed := make([]Recognition, 0, len(s.recognitions))
	for _, recognition := range s.recognitions {
		if recognition.PinnedUntil != nil {
			feed = append([]Recognition{s.withKudos(recognition)}, feed...)
		} else {
			feed = append(feed, s.withKudos(recognition))
		}
		if len(feed) == limit {
			break
		}
	}
	return feed, nil
}

func (s *StubRecognitionRepository) GetByUid(_ context.Context, uid string) (Recognition, error) {
	for _, recognition := range s.recognitions {
		if recognition.Uid == uid {
			return s.withKudos(recognition), nil
		}
	}
	return Recognition{}, ErrNotFound
}

func (s *StubRecognitionRepository) withKudos(recognition Recognition) Recognition {
	kudos := make([]string, 0)
	for userId := range s.kudos[recognition.Id] {
		kudos = append(kudos, userUid(userId))
	}
	recognition.Kudos = kudos
	return recognition
}

func userUid(userId int) string {
	return "user-" + strconv.Itoa(userId)
}

func (s *StubRecognitionRepository) ToggleKudos(_ context.Context, recognitionId int, userId int) (bool, error) {
	if s.kudos[recognitionId] == nil {
		s.kudos[recognitionId] = make(map[int]bool)
	}
	if s.kudos[recognitionId][userId] {
		delete(s.kudos[recognitionId], userId)
		return false, nil
	}
	s.kudos[recognitionId][userId] = true
	return true, nil
}

func (s *StubRecognitionRepository) SetPinnedUntil(_ context.Context, recognitionId int, pinnedUntil *time.Time) (bool, error) {
	for i := range s.recognitions {
		if s.recognitions[i].Id == recognitionId {
			s.recognitions[i].PinnedUntil = pinnedUntil
			return true, nil
		}
	}
	return false, nil
}

func (s *StubRecognitionRepository) ClearExpiredPins(_ context.Context, now time.Time) (int, error) {
	cleared := 0
	for i := range s.recognitions {
		if s.recognitions[i].PinnedUntil != nil && s.recognitions[i].PinnedUntil.Before(now) {
			s.recognitions[i].PinnedUntil = nil
			cleared++
		}
	}
	return cleared, nil
}

func (s *StubRecognitionRepository) SumPointsGivenSince(_ context.Context, senderId int, since time.Time) (int, error) {
	sum := 0
	for _, recognition := range s.recognitions {
		if recognition.SenderId == senderId && !recognition.CreatedAt.Before(since) {
			sum += recognition.Points
		}
	}
	return sum, nil
}

func (s *StubRecognitionRepository) SumPointsReceivedBetween(_ context.Context, recipientId int, from time.Time, to time.Time) (int, error) {
	sum := 0
	for _, recognition := range s.recognitions {
		if recognition.RecipientId == recipientId && !recognition.CreatedAt.Before(from) && recognition.CreatedAt.Before(to) {
			sum += recognition.Points
		}
	}
	return sum, nil
}

func (s *StubRecognitionRepository) GetUserData(_ context.Context, userId int) (UserData, error) {
	var data UserData
	for _, recognition := range s.recognitions {
		if recognition.RecipientId == userId {
			data.ReceivedCount++
			data.PointsReceived += recognition.Points
		}
		if recognition.SenderId == userId {
			data.SentCount++
		}
	}
	return data, nil
}
