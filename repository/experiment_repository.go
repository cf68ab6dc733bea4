package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"lab-cost-estimator/db"
	"lab-cost-estimator/models"
	"lab-cost-estimator/utils"
)

const (
	defaultExperimentName     = "New Experiment"
	defaultExperimentCategory = "Molecular Biology"
)

// experimentState maps experiment id to record. A committed map is never
// mutated; mutations build a new map.
type experimentState map[string]models.Experiment

var _ ExperimentReader = experimentState(nil)

func (s experimentState) Get(id string) (models.Experiment, bool) {
	exp, ok := s[id]
	return exp, ok
}

// List returns experiments ordered by id
func (s experimentState) List() []models.Experiment {
	out := make([]models.Experiment, 0, len(s))
	for _, exp := range s {
		out = append(out, exp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s experimentState) with(exp models.Experiment) experimentState {
	next := make(experimentState, len(s)+1)
	for id, e := range s {
		next[id] = e
	}
	next[exp.ID] = exp
	return next
}

func (s experimentState) without(id string) experimentState {
	next := make(experimentState, len(s))
	for k, e := range s {
		if k != id {
			next[k] = e
		}
	}
	return next
}

func (s experimentState) ids() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}

// ExperimentRepository is the Experiment Store. Operations that touch both
// stores take the experiment lock before the catalog lock.
type ExperimentRepository struct {
	mu      sync.RWMutex
	store   db.DocumentStore
	catalog *CatalogRepository
	state   experimentState
}

// NewExperimentRepository creates an empty ExperimentRepository; call Reload to load it
func NewExperimentRepository(store db.DocumentStore, catalog *CatalogRepository) *ExperimentRepository {
	return &ExperimentRepository{
		store:   store,
		catalog: catalog,
		state:   experimentState{},
	}
}

// Ensure ExperimentRepository implements ExperimentRepositoryInterface
var _ ExperimentRepositoryInterface = (*ExperimentRepository)(nil)

// Reload replaces the in-memory experiments with the persisted document
func (r *ExperimentRepository) Reload(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var doc models.ExperimentsDocument
	ok, err := loadDocument(ctx, r.store, db.DocumentExperiments, &doc)
	if err != nil {
		return err
	}
	state := make(experimentState, len(doc))
	if ok {
		for id, exp := range doc {
			if exp.ID == "" {
				exp.ID = id
			}
			state[id] = exp
		}
	}
	r.state = state

	utils.Log.Infof("✓ Experiments loaded: %d experiments", len(state))
	return nil
}

// Read runs fn with a consistent view of both stores. Mutations to either
// store wait until fn returns.
func (r *ExperimentRepository) Read(fn func(ExperimentReader, CatalogReader) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog.Read(func(cat CatalogReader) error {
		return fn(r.state, cat)
	})
}

// resolveItemRef joins a ref with its catalog item. Resolved is false when
// the item no longer exists.
func resolveItemRef(ref models.ExperimentItemRef, cat CatalogReader) models.ExperimentItemView {
	item, ok := cat.GetItem(ref.ItemID)
	if !ok {
		return models.ExperimentItemView{ID: ref.ItemID, Quantity: ref.Quantity}
	}
	return models.ExperimentItemView{
		ID:       ref.ItemID,
		Name:     item.Name,
		Quantity: ref.Quantity,
		Unit:     item.Unit,
		Price:    item.PricePerUnit,
		Category: item.Category.OrDefault(),
		Resolved: true,
	}
}

// BuildView renders an experiment for display against cat. Dangling item
// refs are left out of Items and listed in Unresolved.
func BuildView(exp models.Experiment, cat CatalogReader) models.ExperimentView {
	view := models.ExperimentView{
		ID:         exp.ID,
		Name:       exp.Name,
		Trials:     exp.EffectiveTrials(),
		Category:   cat.CategoryName(exp.Category),
		CategoryID: exp.Category,
		Grade:      exp.Grade,
		Items:      make([]models.ExperimentItemView, 0, len(exp.Items)),
	}
	if view.Grade == nil {
		view.Grade = []string{}
	}
	for _, ref := range exp.Items {
		item := resolveItemRef(ref, cat)
		if !item.Resolved {
			view.Unresolved = append(view.Unresolved, ref.ItemID)
			continue
		}
		view.Items = append(view.Items, item)
	}
	return view
}

// Render joins an experiment with the current catalog
func (r *ExperimentRepository) Render(exp models.Experiment) models.ExperimentView {
	var view models.ExperimentView
	_ = r.catalog.Read(func(cat CatalogReader) error {
		view = BuildView(exp, cat)
		return nil
	})
	return view
}

// List renders every experiment, ordered by id
func (r *ExperimentRepository) List() []models.ExperimentView {
	var views []models.ExperimentView
	_ = r.Read(func(exps ExperimentReader, cat CatalogReader) error {
		all := exps.List()
		views = make([]models.ExperimentView, 0, len(all))
		for _, exp := range all {
			views = append(views, BuildView(exp, cat))
		}
		return nil
	})
	return views
}

// Get renders one experiment
func (r *ExperimentRepository) Get(id string) (*models.ExperimentView, error) {
	var view *models.ExperimentView
	err := r.Read(func(exps ExperimentReader, cat CatalogReader) error {
		exp, ok := exps.Get(id)
		if !ok {
			return models.NotFoundError("Experiment not found")
		}
		v := BuildView(exp, cat)
		view = &v
		return nil
	})
	return view, err
}

// commit persists the experiments document and swaps it in. Caller holds the write lock.
func (r *ExperimentRepository) commit(ctx context.Context, next experimentState) error {
	if err := saveDocument(ctx, r.store, db.DocumentExperiments, models.ExperimentsDocument(next)); err != nil {
		return err
	}
	r.state = next
	return nil
}

func clampTrials(trials int) int {
	if trials < 1 {
		return 1
	}
	return trials
}

// Create adds an experiment. The category is given by name; a name that
// does not resolve leaves the experiment without a category.
func (r *ExperimentRepository) Create(ctx context.Context, req models.CreateExperimentRequest) (*models.ExperimentView, error) {
	if req.Name == nil {
		return nil, models.ValidationError("Missing experiment name")
	}
	name := strings.TrimSpace(*req.Name)
	if name == "" {
		name = defaultExperimentName
	}
	categoryName := defaultExperimentCategory
	if req.Category != nil {
		categoryName = *req.Category
	}
	trials := 1
	if req.Trials != nil {
		trials = clampTrials(*req.Trials)
	}
	grade := req.Grade
	if grade == nil {
		grade = []string{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	exp := models.Experiment{
		ID:       utils.NextID(utils.ExperimentIDPrefix, utils.ExperimentIDWidth, r.state.ids()),
		Name:     name,
		Category: r.catalog.CategoryIDByName(categoryName),
		Trials:   trials,
		Grade:    append([]string(nil), grade...),
		Items:    []models.ExperimentItemRef{},
	}
	if err := r.commit(ctx, r.state.with(exp)); err != nil {
		return nil, err
	}

	utils.Log.Infof("✅ CreateExperiment: %s %q (category=%q)", exp.ID, exp.Name, exp.Category)
	view := r.Render(exp)
	return &view, nil
}

// Update changes only the fields present in req
func (r *ExperimentRepository) Update(ctx context.Context, id string, req models.UpdateExperimentRequest) (*models.ExperimentView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.state[id]
	if !ok {
		return nil, models.NotFoundError("Experiment not found")
	}
	exp := current.Clone()
	if req.Name != nil {
		exp.Name = *req.Name
	}
	if req.Category != nil {
		exp.Category = r.catalog.CategoryIDByName(*req.Category)
	}
	if req.Trials != nil {
		exp.Trials = clampTrials(*req.Trials)
	}
	if req.Grade != nil {
		exp.Grade = append([]string{}, (*req.Grade)...)
	}
	if err := r.commit(ctx, r.state.with(exp)); err != nil {
		return nil, err
	}

	utils.Log.Infof("✏️  UpdateExperiment: %s", id)
	view := r.Render(exp)
	return &view, nil
}

// Delete removes an experiment
func (r *ExperimentRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.state[id]; !ok {
		return models.NotFoundError("Experiment not found")
	}
	if err := r.commit(ctx, r.state.without(id)); err != nil {
		return err
	}
	utils.Log.Infof("🗑️  DeleteExperiment: %s", id)
	return nil
}

// AddItem attaches an item to an experiment by name. The catalog item is
// created or updated first; a name already used inside the experiment is
// rejected.
func (r *ExperimentRepository) AddItem(ctx context.Context, expID string, input AddItemInput) (*models.ExperimentItemView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.state[expID]
	if !ok {
		return nil, models.NotFoundError("Experiment not found")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, models.ValidationError("Item name is required")
	}
	quantity := 1.0
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	if !finite(quantity) {
		return nil, models.ValidationError("Quantity must be a finite number")
	}
	if quantity < 0 {
		return nil, models.ValidationError("Quantity cannot be negative")
	}

	err := r.catalog.Read(func(cat CatalogReader) error {
		for _, ref := range current.Items {
			if item, ok := cat.GetItem(ref.ItemID); ok && strings.EqualFold(item.Name, name) {
				return models.ConflictError("Item %q already exists in this experiment", name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	item, err := r.catalog.UpsertItemByName(ctx, name, models.ItemPatch{
		Price:    input.Price,
		Unit:     input.Unit,
		Category: input.Category,
	})
	if err != nil {
		return nil, err
	}

	exp := current.Clone()
	ref := models.ExperimentItemRef{ItemID: item.ID, Quantity: quantity}
	if idx := exp.FindItem(item.ID); idx >= 0 {
		// a dangling ref whose id was reallocated to this new catalog item
		exp.Items[idx] = ref
	} else {
		exp.Items = append(exp.Items, ref)
	}
	if err := r.commit(ctx, r.state.with(exp)); err != nil {
		return nil, err
	}

	utils.Log.Infof("✅ AddItem: %s -> %s (%s) qty=%s", item.ID, expID, item.Name, utils.FormatQuantity(quantity))
	view := itemView(item, quantity)
	return &view, nil
}

// UpdateItem changes the quantity on an experiment's ref and the shared
// catalog fields of the item itself
func (r *ExperimentRepository) UpdateItem(ctx context.Context, expID, itemID string, input UpdateItemInput) (*models.ExperimentItemView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.state[expID]
	if !ok {
		return nil, models.NotFoundError("Experiment not found")
	}
	idx := current.FindItem(itemID)
	if idx < 0 {
		return nil, models.NotFoundError("Item not found in experiment")
	}
	if input.Quantity != nil && !finite(*input.Quantity) {
		return nil, models.ValidationError("Quantity must be a finite number")
	}
	if input.Quantity != nil && *input.Quantity < 0 {
		return nil, models.ValidationError("Quantity cannot be negative")
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, models.ValidationError("Item name is required")
	}

	item, err := r.catalog.GetItem(itemID)
	if err != nil {
		return nil, err
	}
	patch := models.ItemPatch{
		Name:     input.Name,
		Price:    input.Price,
		Unit:     input.Unit,
		Category: input.Category,
	}
	if patch.Name != nil || patch.Price != nil || patch.Unit != nil || patch.Category != nil {
		if item, err = r.catalog.UpdateItem(ctx, itemID, patch); err != nil {
			return nil, err
		}
	}

	quantity := current.Items[idx].Quantity
	if input.Quantity != nil {
		exp := current.Clone()
		exp.Items[idx].Quantity = *input.Quantity
		if err := r.commit(ctx, r.state.with(exp)); err != nil {
			return nil, err
		}
		quantity = *input.Quantity
	}

	utils.Log.Infof("✏️  UpdateItem: %s in %s", itemID, expID)
	view := itemView(item, quantity)
	return &view, nil
}

// RemoveItem detaches an item from an experiment. The catalog item is kept.
func (r *ExperimentRepository) RemoveItem(ctx context.Context, expID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.state[expID]
	if !ok {
		return models.NotFoundError("Experiment not found")
	}
	exp := current.Clone()
	kept := make([]models.ExperimentItemRef, 0, len(exp.Items))
	for _, ref := range exp.Items {
		if ref.ItemID != itemID {
			kept = append(kept, ref)
		}
	}
	if len(kept) == len(exp.Items) {
		return models.NotFoundError("Item not found")
	}
	exp.Items = kept
	if err := r.commit(ctx, r.state.with(exp)); err != nil {
		return err
	}
	utils.Log.Infof("🗑️  RemoveItem: %s from %s", itemID, expID)
	return nil
}

func itemView(item models.Item, quantity float64) models.ExperimentItemView {
	return models.ExperimentItemView{
		ID:       item.ID,
		Name:     item.Name,
		Quantity: quantity,
		Unit:     item.Unit,
		Price:    item.PricePerUnit,
		Category: item.Category.OrDefault(),
		Resolved: true,
	}
}
