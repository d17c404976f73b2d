package catalog_test

import (
	"context"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	gormlib "gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appcatalog "github.com/tastebook/v1/internal/application/catalog"
	"github.com/tastebook/v1/internal/domain/catalog"
	gormrepo "github.com/tastebook/v1/internal/infrastructure/persistence/gorm"
	apperrors "github.com/tastebook/v1/pkg/errors"
)

var (
	cook     = appcatalog.Actor{Email: "cook@example.com", LoggedIn: true}
	stranger = appcatalog.Actor{Email: "stranger@example.com", LoggedIn: true}
	visitor  = appcatalog.Actor{}
)

type CatalogServiceSuite struct {
	suite.Suite
	svc *appcatalog.CatalogService
	ctx context.Context
}

func (s *CatalogServiceSuite) newService(policy appcatalog.Policy) *appcatalog.CatalogService {
	db, err := gormlib.Open(sqlite.Open("file::memory:"), &gormlib.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(db.AutoMigrate(&gormrepo.FoodGroupModel{}, &gormrepo.FoodItemModel{}))

	return appcatalog.NewCatalogService(gormrepo.NewCatalogRepository(db), policy, zap.NewNop())
}

func (s *CatalogServiceSuite) SetupTest() {
	s.svc = s.newService(appcatalog.Policy{TrackCreators: true})
	s.ctx = context.Background()
}

func (s *CatalogServiceSuite) mustGroup(name string) *catalog.FoodGroup {
	g, err := s.svc.CreateFoodGroup(s.ctx, appcatalog.CreateGroupCommand{Name: name}, visitor)
	s.Require().NoError(err)
	return g
}

func (s *CatalogServiceSuite) mustItem(groupID uint, actor appcatalog.Actor) *catalog.FoodItem {
	item, err := s.svc.CreateFoodItem(s.ctx, appcatalog.CreateItemCommand{
		Name:        gofakeit.Dinner(),
		Difficulty:  "beginner",
		Description: gofakeit.Sentence(5),
		Recipe:      gofakeit.Sentence(10),
		FoodGroupID: groupID,
	}, actor)
	s.Require().NoError(err)
	return item
}

func (s *CatalogServiceSuite) TestCreateAndListGroups() {
	s.mustGroup("Vegetables")
	s.mustGroup("Fruits")

	groups, err := s.svc.ListFoodGroups(s.ctx)
	s.Require().NoError(err)
	s.Len(groups, 2)
}

func (s *CatalogServiceSuite) TestCreateGroupValidation() {
	_, err := s.svc.CreateFoodGroup(s.ctx, appcatalog.CreateGroupCommand{Name: ""}, visitor)
	s.True(apperrors.Is(err, apperrors.CodeValidationFailed))

	_, err = s.svc.CreateFoodGroup(s.ctx, appcatalog.CreateGroupCommand{Name: strings.Repeat("x", 31)}, visitor)
	s.True(apperrors.Is(err, apperrors.CodeValidationFailed))
}

func (s *CatalogServiceSuite) TestCreateGroupLoginPolicy() {
	svc := s.newService(appcatalog.Policy{RequireLoginForGroups: true})

	_, err := svc.CreateFoodGroup(s.ctx, appcatalog.CreateGroupCommand{Name: "Members Only"}, visitor)
	s.True(apperrors.Is(err, apperrors.CodeUnauthorized))

	_, err = svc.CreateFoodGroup(s.ctx, appcatalog.CreateGroupCommand{Name: "Members Only"}, cook)
	s.NoError(err)
}

func (s *CatalogServiceSuite) TestCreateItemRequiresLogin() {
	g := s.mustGroup("Soups")
	_, err := s.svc.CreateFoodItem(s.ctx, appcatalog.CreateItemCommand{
		Name:        "Broth",
		Difficulty:  "beginner",
		FoodGroupID: g.ID,
	}, visitor)
	s.True(apperrors.Is(err, apperrors.CodeUnauthorized))
}

func (s *CatalogServiceSuite) TestCreateItemRecordsCreator() {
	g := s.mustGroup("Soups")
	item := s.mustItem(g.ID, cook)
	s.Equal(cook.Email, item.CreatorEmail)
}

func (s *CatalogServiceSuite) TestCreateItemWithoutTrackingLeavesCreatorEmpty() {
	svc := s.newService(appcatalog.Policy{TrackCreators: false})
	g, err := svc.CreateFoodGroup(s.ctx, appcatalog.CreateGroupCommand{Name: "Soups"}, visitor)
	s.Require().NoError(err)

	item, err := svc.CreateFoodItem(s.ctx, appcatalog.CreateItemCommand{
		Name:        "Broth",
		Difficulty:  "beginner",
		FoodGroupID: g.ID,
	}, cook)
	s.Require().NoError(err)
	s.Empty(item.CreatorEmail)
}

func (s *CatalogServiceSuite) TestCreateItemUnknownGroup() {
	_, err := s.svc.CreateFoodItem(s.ctx, appcatalog.CreateItemCommand{
		Name:        "Orphan",
		Difficulty:  "beginner",
		FoodGroupID: 99,
	}, cook)
	s.True(apperrors.Is(err, apperrors.CodeFoodGroupNotFound))
}

func (s *CatalogServiceSuite) TestCreateItemBadDifficulty() {
	g := s.mustGroup("Soups")
	_, err := s.svc.CreateFoodItem(s.ctx, appcatalog.CreateItemCommand{
		Name:        "Broth",
		Difficulty:  "novice",
		FoodGroupID: g.ID,
	}, cook)
	s.True(apperrors.Is(err, apperrors.CodeValidationFailed))
}

func (s *CatalogServiceSuite) TestListFoodItemsUnknownGroup() {
	_, _, err := s.svc.ListFoodItems(s.ctx, 42, catalog.DifficultyBeginner)
	s.True(apperrors.Is(err, apperrors.CodeFoodGroupNotFound))
}

func (s *CatalogServiceSuite) TestUpdatePartialFields() {
	g := s.mustGroup("Baking")
	item := s.mustItem(g.ID, cook)
	originalDescription := item.Description

	updated, err := s.svc.UpdateFoodItem(s.ctx, item.ID, appcatalog.UpdateItemCommand{Name: "Better Name"}, cook)
	s.Require().NoError(err)
	s.Equal("Better Name", updated.Name)
	s.Equal(originalDescription, updated.Description)
}

func (s *CatalogServiceSuite) TestUpdateByNonCreatorForbidden() {
	g := s.mustGroup("Baking")
	item := s.mustItem(g.ID, cook)

	_, err := s.svc.UpdateFoodItem(s.ctx, item.ID, appcatalog.UpdateItemCommand{Name: "Hijacked"}, stranger)
	s.True(apperrors.Is(err, apperrors.CodeForbidden))

	// unchanged
	got, err := s.svc.GetFoodItem(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Equal(item.Name, got.Name)
}

func (s *CatalogServiceSuite) TestUpdateByAnonymousUnauthorized() {
	g := s.mustGroup("Baking")
	item := s.mustItem(g.ID, cook)

	_, err := s.svc.UpdateFoodItem(s.ctx, item.ID, appcatalog.UpdateItemCommand{Name: "Nope"}, visitor)
	s.True(apperrors.Is(err, apperrors.CodeUnauthorized))
}

func (s *CatalogServiceSuite) TestUpdateUnattributedItemByAnyUser() {
	// items created before creator tracking have no creator on record;
	// anyone logged in may still edit those
	db, err := gormlib.Open(sqlite.Open("file::memory:"), &gormlib.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(db.AutoMigrate(&gormrepo.FoodGroupModel{}, &gormrepo.FoodItemModel{}))
	repo := gormrepo.NewCatalogRepository(db)

	untracked := appcatalog.NewCatalogService(repo, appcatalog.Policy{TrackCreators: false}, zap.NewNop())
	g, err := untracked.CreateFoodGroup(s.ctx, appcatalog.CreateGroupCommand{Name: "Legacy"}, visitor)
	s.Require().NoError(err)
	item, err := untracked.CreateFoodItem(s.ctx, appcatalog.CreateItemCommand{
		Name:        "Old Dish",
		Difficulty:  "expert",
		FoodGroupID: g.ID,
	}, cook)
	s.Require().NoError(err)
	s.Empty(item.CreatorEmail)

	tracked := appcatalog.NewCatalogService(repo, appcatalog.Policy{TrackCreators: true}, zap.NewNop())
	_, err = tracked.UpdateFoodItem(s.ctx, item.ID, appcatalog.UpdateItemCommand{Name: "Renamed"}, stranger)
	s.NoError(err)
}

func (s *CatalogServiceSuite) TestDeleteByCreator() {
	g := s.mustGroup("Baking")
	item := s.mustItem(g.ID, cook)

	s.Require().NoError(s.svc.DeleteFoodItem(s.ctx, item.ID, cook))
	_, err := s.svc.GetFoodItem(s.ctx, item.ID)
	s.True(apperrors.Is(err, apperrors.CodeFoodItemNotFound))
}

func (s *CatalogServiceSuite) TestDeleteByNonCreatorForbidden() {
	g := s.mustGroup("Baking")
	item := s.mustItem(g.ID, cook)

	err := s.svc.DeleteFoodItem(s.ctx, item.ID, stranger)
	s.True(apperrors.Is(err, apperrors.CodeForbidden))

	_, err = s.svc.GetFoodItem(s.ctx, item.ID)
	s.NoError(err)
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceSuite))
}
