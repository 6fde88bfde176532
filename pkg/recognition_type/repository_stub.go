package recognition_type

import "context"

type StubRepository struct {
	nextId int
	data   map[int]RecognitionType
}

func NewStubRepository() *StubRepository {
	return &StubRepository{data: map[int]RecognitionType{}}
}

func (s *StubRepository) Store(ctx context.Context, recognitionType RecognitionType) (int, error) {
	s.nextId++
	recognitionType.Id = s.nextId
	s.data[recognitionType.Id] = recognitionType
	return recognitionType.Id, nil
}

func (s *StubRepository) GetAll(ctx context.Context, includeInactive bool) ([]RecognitionType, error) {
	types := make([]RecognitionType, 0, len(s.data))
	for _, recognitionType := range s.data {
		if recognitionType.Active || includeInactive {
			types = append(types, recognitionType)
		}
	}
	return types, nil
}

func (s *StubRepository) GetByUid(ctx context.Context, uid string) (RecognitionType, error) {
	for _, recognitionType := range s.data {
		if recognitionType.Uid == uid {
			return recognitionType, nil
		}
	}
	return RecognitionType{}, ErrNotFound
}

func (s *StubRepository) Update(ctx context.Context, recognitionType RecognitionType) (bool, error) {
	if _, ok := s.data[recognitionType.Id]; !ok {
		return false, nil
	}
	s.data[recognitionType.Id] = recognitionType
	return true, nil
}

func (s *StubRepository) Cleanup() {
	s.data = map[int]RecognitionType{}
}
