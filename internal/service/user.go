package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// UserService owns user listing and the subscription relation.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Get(ctx context.Context, viewerID *uuid.UUID, userID uuid.UUID) (*types.UserResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, translateNotFound(err)
	}

	subscribed, err := s.isSubscribed(ctx, viewerID, userID)
	if err != nil {
		return nil, err
	}

	resp := userResponse(&user, subscribed)
	return &resp, nil
}

func (s *UserService) List(ctx context.Context, viewerID *uuid.UUID, offset, limit int) ([]types.UserResponse, int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	subscribed := make(map[uuid.UUID]bool)
	if viewerID != nil && len(users) > 0 {
		ids := make([]uuid.UUID, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		var subs []models.Subscription
		if err := s.db.WithContext(ctx).Where("user_id = ? AND following_id IN ?", *viewerID, ids).Find(&subs).Error; err != nil {
			return nil, 0, err
		}
		for _, sub := range subs {
			subscribed[sub.FollowingID] = true
		}
	}

	responses := make([]types.UserResponse, len(users))
	for i, u := range users {
		responses[i] = userResponse(&u, subscribed[u.ID])
	}
	return responses, count, nil
}

// Subscribe adds the (user, following) row. Following yourself is rejected
// before any write; the insert itself is a single conditional statement so
// concurrent duplicates cannot produce two rows.
func (s *UserService) Subscribe(ctx context.Context, userID, followingID uuid.UUID, recipesLimit int) (*types.UserWithRecipesResponse, error) {
	if userID == followingID {
		return nil, validationErr("following", "cannot subscribe to yourself")
	}

	var following models.User
	if err := s.db.WithContext(ctx).First(&following, "id = ?", followingID).Error; err != nil {
		return nil, translateNotFound(err)
	}

	row := models.Subscription{UserID: userID, FollowingID: followingID}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrActionImpossible
	}

	return s.withRecipes(ctx, &following, true, recipesLimit)
}

func (s *UserService) Unsubscribe(ctx context.Context, userID, followingID uuid.UUID) error {
	var following models.User
	if err := s.db.WithContext(ctx).First(&following, "id = ?", followingID).Error; err != nil {
		return translateNotFound(err)
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND following_id = ?", userID, followingID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrActionImpossible
	}
	return nil
}

// Subscriptions lists the users the given user follows, each with a clipped
// recipe preview list and the total recipe count.
func (s *UserService) Subscriptions(ctx context.Context, userID uuid.UUID, offset, limit, recipesLimit int) ([]types.UserWithRecipesResponse, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN subscriptions ON subscriptions.following_id = users.id").
		Where("subscriptions.user_id = ?", userID)

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var followed []models.User
	if err := base.Order("subscriptions.created_at").Offset(offset).Limit(limit).Find(&followed).Error; err != nil {
		return nil, 0, err
	}

	responses := make([]types.UserWithRecipesResponse, len(followed))
	for i := range followed {
		resp, err := s.withRecipes(ctx, &followed[i], true, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		responses[i] = *resp
	}
	return responses, count, nil
}

func (s *UserService) withRecipes(ctx context.Context, user *models.User, subscribed bool, recipesLimit int) (*types.UserWithRecipesResponse, error) {
	var recipesCount int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", user.ID).Count(&recipesCount).Error; err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Where("author_id = ?", user.ID).Order("created_at DESC")
	if recipesLimit > 0 {
		query = query.Limit(recipesLimit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}

	previews := make([]types.RecipePreview, len(recipes))
	for i, r := range recipes {
		previews[i] = *previewOf(&r)
	}

	return &types.UserWithRecipesResponse{
		UserResponse: userResponse(user, subscribed),
		Recipes:      previews,
		RecipesCount: recipesCount,
	}, nil
}

func (s *UserService) isSubscribed(ctx context.Context, viewerID *uuid.UUID, userID uuid.UUID) (bool, error) {
	if viewerID == nil {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND following_id = ?", *viewerID, userID).
		Count(&count).Error
	return count > 0, err
}

func userResponse(user *models.User, subscribed bool) types.UserResponse {
	return types.UserResponse{
		Email:        user.Email,
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}
}
