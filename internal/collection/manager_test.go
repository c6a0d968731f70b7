package collection_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tmarques/flashdeck/internal/collection"
	apperrors "github.com/tmarques/flashdeck/internal/errors"
	"github.com/tmarques/flashdeck/internal/models"
	"github.com/tmarques/flashdeck/internal/store"
	"github.com/tmarques/flashdeck/internal/testutil"
)

type ManagerSuite struct {
	suite.Suite
	records *store.Records
	manager *collection.Manager
}

func (s *ManagerSuite) SetupTest() {
	s.records = testutil.NewTestRecords(s.T())
	s.manager = collection.NewManager(s.records)
}

func (s *ManagerSuite) seed(cards ...models.Flashcard) {
	s.Require().NoError(s.records.SaveFlashcards(context.Background(), cards))
}

func (s *ManagerSuite) TestUpsertAssignsIDAndDefaults() {
	ctx := context.Background()

	saved, err := s.manager.Upsert(ctx, models.Flashcard{Question: "Capital of France?", Answer: "Paris"})
	s.Require().NoError(err)
	s.Assert().NotZero(saved.ID)
	s.Assert().Equal(models.DefaultCategory, saved.Category)
	s.Assert().False(saved.CreatedAt.IsZero())

	cards, err := s.manager.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(cards, 1)
	s.Assert().Equal(saved.ID, cards[0].ID)
	s.Assert().Equal("Capital of France?", cards[0].Question)
}

func (s *ManagerSuite) TestUpsertNewIDAppends() {
	ctx := context.Background()
	s.seed(models.Flashcard{ID: 1, Question: "q1", Answer: "a1", Category: "Math"})

	_, err := s.manager.Upsert(ctx, models.Flashcard{ID: 2, Question: "q2", Answer: "a2", Category: "Math"})
	s.Require().NoError(err)

	cards, err := s.manager.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(cards, 2)
	s.Assert().Equal(int64(1), cards[0].ID)
	s.Assert().Equal(int64(2), cards[1].ID)
}

func (s *ManagerSuite) TestUpsertExistingIDReplacesInPlace() {
	ctx := context.Background()
	s.seed(
		models.Flashcard{ID: 1, Question: "q1", Answer: "a1", Category: "Math"},
		models.Flashcard{ID: 2, Question: "q2", Answer: "a2", Category: "Math"},
		models.Flashcard{ID: 3, Question: "q3", Answer: "a3", Category: "History"},
	)

	_, err := s.manager.Upsert(ctx, models.Flashcard{ID: 2, Question: "edited", Answer: "a2", Category: "Math"})
	s.Require().NoError(err)

	cards, err := s.manager.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(cards, 3, "replacing must preserve collection length")
	s.Assert().Equal("edited", cards[1].Question)
	s.Assert().Equal(int64(2), cards[1].ID)
}

func (s *ManagerSuite) TestUpsertRejectsEmptyQuestionOrAnswer() {
	ctx := context.Background()
	s.seed(models.Flashcard{ID: 1, Question: "q1", Answer: "a1", Category: "Math"})

	_, err := s.manager.Upsert(ctx, models.Flashcard{Question: "", Answer: "a"})
	s.Require().Error(err)
	s.assertValidation(err)

	_, err = s.manager.Upsert(ctx, models.Flashcard{Question: "q", Answer: "   "})
	s.Require().Error(err)
	s.assertValidation(err)

	cards, err := s.manager.List(ctx)
	s.Require().NoError(err)
	s.Assert().Len(cards, 1, "rejected upserts must leave the collection unchanged")
}

func (s *ManagerSuite) TestUpsertRejectsUnknownDifficulty() {
	_, err := s.manager.Upsert(context.Background(), models.Flashcard{
		Question: "q", Answer: "a", Difficulty: "Impossible",
	})
	s.Require().Error(err)
	s.assertValidation(err)
}

func (s *ManagerSuite) TestDelete() {
	ctx := context.Background()
	s.seed(
		models.Flashcard{ID: 1, Question: "q1", Answer: "a1", Category: "Math"},
		models.Flashcard{ID: 2, Question: "q2", Answer: "a2", Category: "Math"},
	)

	s.Require().NoError(s.manager.Delete(ctx, 1))

	cards, err := s.manager.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(cards, 1)
	s.Assert().Equal(int64(2), cards[0].ID)

	err = s.manager.Delete(ctx, 99)
	s.Require().Error(err)
	appErr, ok := err.(*apperrors.AppError)
	s.Require().True(ok)
	s.Assert().Equal(apperrors.ErrCodeNotFound, appErr.Code)
}

func (s *ManagerSuite) TestFilterBySearchTerm() {
	ctx := context.Background()
	s.seed(
		models.Flashcard{ID: 1, Question: "What is Math about?", Answer: "a", Category: "Math"},
		models.Flashcard{ID: 2, Question: "Capital of France?", Answer: "a", Category: "Geography"},
		models.Flashcard{ID: 3, Question: "mathematics branch?", Answer: "a", Category: "Math"},
	)

	cards, err := s.manager.Filter(ctx, models.CardFilter{
		Search: "math", Category: models.FilterAll, Difficulty: models.FilterAll,
	})
	s.Require().NoError(err)
	s.Require().Len(cards, 2)
	s.Assert().Equal(int64(1), cards[0].ID)
	s.Assert().Equal(int64(3), cards[1].ID)
}

func (s *ManagerSuite) TestFilterCombinesPredicates() {
	ctx := context.Background()
	s.seed(
		models.Flashcard{ID: 1, Question: "integrals", Answer: "a", Category: "Math", Difficulty: models.DifficultyHard},
		models.Flashcard{ID: 2, Question: "integers", Answer: "a", Category: "Math", Difficulty: models.DifficultyEasy},
		models.Flashcard{ID: 3, Question: "integration of Europe", Answer: "a", Category: "History", Difficulty: models.DifficultyHard},
	)

	cards, err := s.manager.Filter(ctx, models.CardFilter{
		Search: "integr", Category: "Math", Difficulty: models.DifficultyHard,
	})
	s.Require().NoError(err)
	s.Require().Len(cards, 1)
	s.Assert().Equal(int64(1), cards[0].ID)
}

func (s *ManagerSuite) TestCategoriesFirstSeenOrder() {
	ctx := context.Background()
	s.seed(
		models.Flashcard{ID: 1, Question: "q", Answer: "a", Category: "General"},
		models.Flashcard{ID: 2, Question: "q", Answer: "a", Category: "Math"},
		models.Flashcard{ID: 3, Question: "q", Answer: "a", Category: "Math"},
		models.Flashcard{ID: 4, Question: "q", Answer: "a", Category: "History"},
	)

	categories, err := s.manager.Categories(ctx)
	s.Require().NoError(err)
	s.Assert().Equal([]string{"All", "General", "Math", "History"}, categories)
}

func (s *ManagerSuite) TestExportEmptyCollectionIsArray() {
	data, err := s.manager.Export(context.Background())
	s.Require().NoError(err)
	s.Assert().JSONEq(`[]`, string(data))
}

func (s *ManagerSuite) TestExportImportRoundTrip() {
	ctx := context.Background()
	s.seed(
		models.Flashcard{ID: 1, Question: "q1", Answer: "a1", Category: "Math", Options: []string{"a1", "b"}},
		models.Flashcard{ID: 2, Question: "q2", Answer: "a2", Category: "History"},
	)

	data, err := s.manager.Export(ctx)
	s.Require().NoError(err)

	// Import into a fresh store and compare.
	other := collection.NewManager(testutil.NewTestRecords(s.T()))
	count, err := other.Import(ctx, data)
	s.Require().NoError(err)
	s.Assert().Equal(2, count)

	original, err := s.manager.List(ctx)
	s.Require().NoError(err)
	imported, err := other.List(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(original, imported)
}

func (s *ManagerSuite) TestImportMalformedLeavesCollectionUntouched() {
	ctx := context.Background()
	s.seed(models.Flashcard{ID: 1, Question: "q1", Answer: "a1", Category: "Math"})

	before, err := s.manager.Export(ctx)
	s.Require().NoError(err)

	_, err = s.manager.Import(ctx, []byte(`{"not": "an array"`))
	s.Require().Error(err)
	s.assertValidation(err)

	_, err = s.manager.Import(ctx, []byte(`null`))
	s.Require().Error(err)

	after, err := s.manager.Export(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(before, after, "failed import must not modify the stored collection")
}

func (s *ManagerSuite) TestImportReplacesWholeCollection() {
	ctx := context.Background()
	s.seed(
		models.Flashcard{ID: 1, Question: "old1", Answer: "a", Category: "Math"},
		models.Flashcard{ID: 2, Question: "old2", Answer: "a", Category: "Math"},
	)

	count, err := s.manager.Import(ctx, []byte(`[{"id": 9, "question": "new", "answer": "a", "category": "History"}]`))
	s.Require().NoError(err)
	s.Assert().Equal(1, count)

	cards, err := s.manager.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(cards, 1)
	s.Assert().Equal(int64(9), cards[0].ID)
}

func (s *ManagerSuite) assertValidation(err error) {
	appErr, ok := err.(*apperrors.AppError)
	s.Require().True(ok)
	s.Assert().Equal(apperrors.ErrCodeValidation, appErr.Code)
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}
