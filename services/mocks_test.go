package services

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/mock"

	"prompt-stash/models"
)

type MockCategoryRepository struct {
	mock.Mock
}

var _ CategoryRepository = (*MockCategoryRepository)(nil)

func (m *MockCategoryRepository) ListAll() ([]models.Category, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(name, icon string, sortOrder int) (*models.Category, error) {
	args := m.Called(name, icon, sortOrder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

type MockPromptRepository struct {
	mock.Mock
}

var _ PromptRepository = (*MockPromptRepository)(nil)

func (m *MockPromptRepository) Search(params *models.SearchParams) ([]models.Prompt, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Prompt), args.Error(1)
}

type MockSettingsRepository struct {
	mock.Mock
}

var _ SettingsRepository = (*MockSettingsRepository)(nil)

func (m *MockSettingsRepository) GetLLMConfig() (*models.LLMConfig, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LLMConfig), args.Error(1)
}

type MockChatModel struct {
	mock.Mock
}

var _ ChatModel = (*MockChatModel)(nil)

func (m *MockChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schema.Message), args.Error(1)
}

func mockFactory(cm ChatModel, err error) ChatModelFactory {
	return func(ctx context.Context, config *models.LLMConfig) (ChatModel, error) {
		if err != nil {
			return nil, err
		}
		return cm, nil
	}
}
