package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/feiaaa1/mindstream/internal/domain/repository"
)

// MockInserter is a mock implementation of inserter
type MockInserter struct {
	mock.Mock
}

func (m *MockInserter) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	args := m.Called(ctx, document)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mongo.InsertOneResult), args.Error(1)
}

// MockCallLogRepository is a mock implementation of repository.CallLogRepository
type MockCallLogRepository struct {
	mock.Mock
}

func (m *MockCallLogRepository) Record(ctx context.Context, entry repository.AICallLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func TestMongoCallLog_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps created_at", func(t *testing.T) {
		coll := new(MockInserter)
		coll.On("InsertOne", ctx, mock.MatchedBy(func(doc interface{}) bool {
			entry, ok := doc.(repository.AICallLog)
			return ok && entry.ProviderID == "google" && !entry.CreatedAt.IsZero()
		})).Return(&mongo.InsertOneResult{InsertedID: "1"}, nil).Once()

		l := &MongoCallLog{collection: coll}
		err := l.Record(ctx, repository.AICallLog{ProviderID: "google", Operation: repository.OperationStructure})

		require.NoError(t, err)
		coll.AssertExpectations(t)
	})

	t.Run("insert error", func(t *testing.T) {
		coll := new(MockInserter)
		coll.On("InsertOne", ctx, mock.Anything).Return(nil, errors.New("no primary")).Once()

		l := &MongoCallLog{collection: coll}
		err := l.Record(ctx, repository.AICallLog{ProviderID: "openai"})

		assert.ErrorContains(t, err, "no primary")
	})
}

func TestAsyncCallLog_Record(t *testing.T) {
	inner := new(MockCallLogRepository)
	done := make(chan struct{})
	entry := repository.AICallLog{ProviderID: "ollama", Operation: repository.OperationStructure}
	inner.On("Record", mock.Anything, entry).Return(errors.New("down")).Run(func(mock.Arguments) {
		close(done)
	}).Once()

	err := NewAsyncCallLog(inner, zap.NewNop()).Record(context.Background(), entry)
	assert.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("record was not written")
	}
	inner.AssertExpectations(t)
}

func TestNopCallLog(t *testing.T) {
	assert.NoError(t, NopCallLog{}.Record(context.Background(), repository.AICallLog{}))
}
