package recipes

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// scriptedExtractor replays a fixed sequence of batches, one per call.
// A nil batch entry with err set simulates a failure on that pass.
type scriptedExtractor struct {
	batches [][]Recipe
	errs    []error
	calls   int
	seen    [][]Recipe // known set observed per call
}

func (s *scriptedExtractor) Extract(_ context.Context, _ VideoContext, _, _ string,
	known []Recipe, _ ExtractOptions) ([]Recipe, error) {

	i := s.calls
	s.calls++
	s.seen = append(s.seen, append([]Recipe(nil), known...))
	if i >= len(s.batches) {
		return nil, nil
	}
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return s.batches[i], err
}

func mkRecipe(title string, steps int) Recipe {
	r := Recipe{Title: title}
	for i := 0; i < steps; i++ {
		r.Instructions = append(r.Instructions, Instruction{Step: i + 1, Text: fmt.Sprintf("%s step %d", title, i+1)})
	}
	return r
}

func TestExtractAll_ConvergesOnEmptyBatch(t *testing.T) {
	ex := &scriptedExtractor{batches: [][]Recipe{
		{mkRecipe("Carbonara", 3)},
		{mkRecipe("Cacio e Pepe", 2)},
		{}, // nothing new — converged
	}}

	result, err := ExtractAll(context.Background(), ex, VideoContext{ID: "vid1"}, "text", "", nil, ExtractOptions{})
	if err != nil {
		t.Fatalf("ExtractAll error: %v", err)
	}
	if result.Iterations != 3 {
		t.Errorf("iterations = %d, want 3", result.Iterations)
	}
	if len(result.Recipes.Recipes) != 2 {
		t.Fatalf("got %d recipes, want 2", len(result.Recipes.Recipes))
	}
	if result.Recipes.Recipes[0].Title != "Carbonara" || result.Recipes.Recipes[1].Title != "Cacio e Pepe" {
		t.Errorf("unexpected titles: %q, %q", result.Recipes.Recipes[0].Title, result.Recipes.Recipes[1].Title)
	}
}

func TestExtractAll_DuplicatesNeverAccumulate(t *testing.T) {
	// The extractor keeps re-emitting the same recipe every pass.
	same := mkRecipe("Carbonara", 3)
	ex := &scriptedExtractor{batches: [][]Recipe{
		{same},
		{same},
	}}

	result, err := ExtractAll(context.Background(), ex, VideoContext{}, "text", "", nil, ExtractOptions{})
	if err != nil {
		t.Fatalf("ExtractAll error: %v", err)
	}
	if len(result.Recipes.Recipes) != 1 {
		t.Errorf("got %d recipes, want 1", len(result.Recipes.Recipes))
	}
	if result.Iterations != 2 {
		t.Errorf("iterations = %d, want 2 (second pass added nothing)", result.Iterations)
	}
}

func TestExtractAll_TitleMatchCaseInsensitive(t *testing.T) {
	ex := &scriptedExtractor{batches: [][]Recipe{
		{mkRecipe("Pasta  Carbonara", 3)},
		{mkRecipe("pasta carbonara!", 3)},
	}}

	result, err := ExtractAll(context.Background(), ex, VideoContext{}, "text", "", nil, ExtractOptions{})
	if err != nil {
		t.Fatalf("ExtractAll error: %v", err)
	}
	if len(result.Recipes.Recipes) != 1 {
		t.Errorf("got %d recipes, want 1 (titles normalize to the same key)", len(result.Recipes.Recipes))
	}
}

func TestExtractAll_SeedsKnownRecipes(t *testing.T) {
	existing := []Recipe{mkRecipe("Carbonara", 3)}
	ex := &scriptedExtractor{batches: [][]Recipe{
		{mkRecipe("Tiramisu", 4)},
		{},
	}}

	result, err := ExtractAll(context.Background(), ex, VideoContext{}, "text", "", existing, ExtractOptions{})
	if err != nil {
		t.Fatalf("ExtractAll error: %v", err)
	}
	if len(result.Recipes.Recipes) != 2 {
		t.Fatalf("got %d recipes, want 2", len(result.Recipes.Recipes))
	}
	// The first pass must already see the seeded recipe as known.
	if len(ex.seen) == 0 || len(ex.seen[0]) != 1 || ex.seen[0][0].Title != "Carbonara" {
		t.Errorf("first pass known set = %+v, want the seeded recipe", ex.seen[0])
	}
}

func TestExtractAll_ExtractorFailureAborts(t *testing.T) {
	boom := errors.New("service unavailable")
	ex := &scriptedExtractor{
		batches: [][]Recipe{
			{mkRecipe("Carbonara", 3)},
			nil,
		},
		errs: []error{nil, boom},
	}

	_, err := ExtractAll(context.Background(), ex, VideoContext{}, "text", "", nil, ExtractOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	var exErr *ExtractorError
	if !errors.As(err, &exErr) {
		t.Fatalf("expected ExtractorError, got %T: %v", err, err)
	}
	if exErr.Iteration != 2 {
		t.Errorf("failed iteration = %d, want 2", exErr.Iteration)
	}
	if !errors.Is(err, boom) {
		t.Error("cause not wrapped")
	}
}

func TestExtractAll_MalformedBatchContinues(t *testing.T) {
	ex := &scriptedExtractor{
		batches: [][]Recipe{
			nil,
			{mkRecipe("Carbonara", 3)},
			{},
		},
		errs: []error{fmt.Errorf("%w: bad json", ErrMalformedBatch), nil, nil},
	}

	result, err := ExtractAll(context.Background(), ex, VideoContext{}, "text", "", nil, ExtractOptions{})
	if err != nil {
		t.Fatalf("ExtractAll error: %v", err)
	}
	if len(result.Recipes.Recipes) != 1 {
		t.Errorf("got %d recipes, want 1", len(result.Recipes.Recipes))
	}
}

func TestExtractAll_AllMalformedFails(t *testing.T) {
	bad := fmt.Errorf("%w: bad json", ErrMalformedBatch)
	ex := &scriptedExtractor{
		batches: [][]Recipe{nil, nil},
		errs:    []error{bad, bad},
	}

	_, err := ExtractAll(context.Background(), ex, VideoContext{}, "text", "", nil, ExtractOptions{MaxIterations: 2})
	if !errors.Is(err, ErrMalformedBatch) {
		t.Fatalf("expected ErrMalformedBatch, got %v", err)
	}
}

func TestExtractAll_MaxIterationsCap(t *testing.T) {
	// Every pass yields a fresh recipe; only the cap stops the loop.
	ex := &scriptedExtractor{batches: [][]Recipe{
		{mkRecipe("One", 1)},
		{mkRecipe("Two", 2)},
		{mkRecipe("Three", 3)},
		{mkRecipe("Four", 4)},
	}}

	result, err := ExtractAll(context.Background(), ex, VideoContext{}, "text", "", nil, ExtractOptions{MaxIterations: 3})
	if err != nil {
		t.Fatalf("ExtractAll error: %v", err)
	}
	if result.Iterations != 3 {
		t.Errorf("iterations = %d, want 3", result.Iterations)
	}
	if len(result.Recipes.Recipes) != 3 {
		t.Errorf("got %d recipes, want 3", len(result.Recipes.Recipes))
	}
}

func TestExtractAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ex := &scriptedExtractor{batches: [][]Recipe{{mkRecipe("One", 1)}}}
	_, err := ExtractAll(ctx, ex, VideoContext{}, "text", "", nil, ExtractOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
