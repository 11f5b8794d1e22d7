package services

import (
	"testing"

	"daybook/internal/pagination"
	"daybook/internal/testutil"
)

func TestCreateRecipe(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecipeService(db)
		user := testutil.CreateTestUser(t, db)

		recipe, err := svc.CreateRecipe(user.ID, "Shakshuka", "eggs, tomatoes", "Simmer, crack eggs in.", 2, 30, "breakfast")
		testutil.AssertNoError(t, err)

		if recipe.ID == "" {
			t.Fatal("expected non-empty recipe ID")
		}
		if recipe.Servings != 2 {
			t.Errorf("expected 2 servings, got %d", recipe.Servings)
		}
	})

	t.Run("rejects_empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecipeService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateRecipe(user.ID, "", "", "", 0, 0, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_negative_prep_minutes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecipeService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateRecipe(user.ID, "Broken", "", "", 0, -5, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserRecipes(t *testing.T) {
	t.Run("ordered_by_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecipeService(db)
		user := testutil.CreateTestUser(t, db)

		for _, name := range []string{"Pancakes", "Aioli", "Minestrone"} {
			_, err := svc.CreateRecipe(user.ID, name, "", "", 1, 10, "")
			testutil.AssertNoError(t, err)
		}

		result, err := svc.GetUserRecipes(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 3 {
			t.Fatalf("expected 3 recipes, got %d", result.TotalItems)
		}
		if result.Data[0].Name != "Aioli" || result.Data[2].Name != "Pancakes" {
			t.Errorf("expected alphabetical order, got %s..%s", result.Data[0].Name, result.Data[2].Name)
		}
	})
}

func TestUpdateRecipe(t *testing.T) {
	t.Run("partial_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecipeService(db)
		user := testutil.CreateTestUser(t, db)

		recipe, err := svc.CreateRecipe(user.ID, "Dal", "lentils", "Boil.", 4, 40, "dinner")
		testutil.AssertNoError(t, err)

		servings := 6
		updated, err := svc.UpdateRecipe(user.ID, recipe.ID, "", "", "", &servings, nil, nil)
		testutil.AssertNoError(t, err)

		if updated.Servings != 6 {
			t.Errorf("expected 6 servings, got %d", updated.Servings)
		}
		if updated.Name != "Dal" || updated.PrepMinutes != 40 {
			t.Error("untouched fields should keep their values")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecipeService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateRecipe(user.ID, "missing-id", "x", "", "", nil, nil, nil)
		testutil.AssertAppError(t, err, "RECIPE_NOT_FOUND")
	})
}

func TestDeleteRecipe(t *testing.T) {
	t.Run("deletes_own_recipe", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecipeService(db)
		user := testutil.CreateTestUser(t, db)

		recipe, err := svc.CreateRecipe(user.ID, "Toast", "", "", 1, 5, "")
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteRecipe(user.ID, recipe.ID))

		_, err = svc.GetRecipeByID(user.ID, recipe.ID)
		testutil.AssertAppError(t, err, "RECIPE_NOT_FOUND")
	})

	t.Run("cannot_delete_other_users_recipe", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecipeService(db)
		alice := testutil.CreateTestUser(t, db)
		bob := testutil.CreateTestUserWithEmail(t, db, "bob@example.com")

		recipe, err := svc.CreateRecipe(alice.ID, "Secret Sauce", "", "", 1, 5, "")
		testutil.AssertNoError(t, err)

		err = svc.DeleteRecipe(bob.ID, recipe.ID)
		testutil.AssertAppError(t, err, "RECIPE_NOT_FOUND")
	})
}
