// Package memory provides map-backed repositories with the same semantics as
// the Mongo implementations. It backs the "memory" database driver and the tests.
package memory

import (
	"athleteiq/coaching-api/internal/domain"
	"athleteiq/coaching-api/internal/repository"
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds every collection. Repositories returned by NewRepositories share it,
// which lets the workout repository join against training plans.
type Store struct {
	mu           sync.RWMutex
	users        map[primitive.ObjectID]domain.User
	workouts     map[primitive.ObjectID]domain.Workout
	performances map[primitive.ObjectID]domain.Performance
	plans        map[primitive.ObjectID]domain.TrainingPlan
	feedback     map[primitive.ObjectID]domain.Feedback
	injuries     map[primitive.ObjectID]domain.Injury
}

func NewStore() *Store {
	return &Store{
		users:        map[primitive.ObjectID]domain.User{},
		workouts:     map[primitive.ObjectID]domain.Workout{},
		performances: map[primitive.ObjectID]domain.Performance{},
		plans:        map[primitive.ObjectID]domain.TrainingPlan{},
		feedback:     map[primitive.ObjectID]domain.Feedback{},
		injuries:     map[primitive.ObjectID]domain.Injury{},
	}
}

// NewRepositories returns repositories backed by a fresh store.
func NewRepositories() repository.Repositories {
	return NewStore().Repositories()
}

func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:       &userRepo{s},
		Workouts:    &workoutRepo{s},
		Performance: &performanceRepo{s},
		Plans:       &planRepo{s},
		Feedback:    &feedbackRepo{s},
		Injuries:    &injuryRepo{s},
	}
}

func now() time.Time { return time.Now().UTC() }

// --- users ---

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = cloneUser(*user)
	return user.ID, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			out := cloneUser(u)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneUser(u)
	return &out, nil
}

func (r *userRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	users := []domain.User{}
	seen := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok && !seen[id] {
			seen[id] = true
			users = append(users, cloneUser(u))
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return bytes.Compare(users[i].ID[:], users[j].ID[:]) < 0
	})
	return users, nil
}

func (r *userRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	users := []domain.User{}
	for _, u := range r.s.users {
		if filter.Role == "" || u.Role == filter.Role {
			users = append(users, cloneUser(u))
		}
	}
	sort.Slice(users, func(i, j int) bool {
		return newerFirst(users[i].CreatedAt, users[j].CreatedAt, users[i].ID, users[j].ID)
	})
	return users, nil
}

func (r *userRepo) Count(ctx context.Context, filter repository.UserFilter) (int64, error) {
	users, err := r.List(ctx, filter)
	return int64(len(users)), err
}

func (r *userRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, update domain.ProfileUpdate) (*domain.User, error) {
	var out domain.User
	err := r.mutate(id, func(u *domain.User) {
		if update.Name != nil {
			u.Name = *update.Name
		}
		if update.Phone != nil {
			u.Phone = *update.Phone
		}
		if update.DateOfBirth != nil {
			dob := *update.DateOfBirth
			u.DateOfBirth = &dob
		}
		if update.Gender != nil {
			u.Gender = *update.Gender
		}
		if update.SportsCategory != nil {
			u.SportsCategory = *update.SportsCategory
		}
		if update.ProfileImage != nil {
			u.ProfileImage = *update.ProfileImage
		}
		out = cloneUser(*u)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userRepo) UpdatePasswordHash(_ context.Context, id primitive.ObjectID, hash string) error {
	return r.mutate(id, func(u *domain.User) { u.PasswordHash = hash })
}

func (r *userRepo) UpdateLastLogin(_ context.Context, id primitive.ObjectID, at time.Time) error {
	return r.mutate(id, func(u *domain.User) { u.LastLogin = &at })
}

func (r *userRepo) SetActive(_ context.Context, id primitive.ObjectID, active bool) error {
	return r.mutate(id, func(u *domain.User) { u.IsActive = active })
}

func (r *userRepo) SetRole(_ context.Context, id primitive.ObjectID, role domain.Role) error {
	return r.mutate(id, func(u *domain.User) { u.Role = role })
}

func (r *userRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *userRepo) mutate(id primitive.ObjectID, fn func(u *domain.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = now()
	r.s.users[id] = u
	return nil
}

// --- workouts ---

type workoutRepo struct{ s *Store }

func (r *workoutRepo) Create(_ context.Context, w *domain.Workout) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w.ID = primitive.NewObjectID()
	w.CreatedAt = now()
	w.UpdatedAt = w.CreatedAt
	r.s.workouts[w.ID] = cloneWorkout(*w)
	return w.ID, nil
}

func (r *workoutRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneWorkout(w)
	return &out, nil
}

func (r *workoutRepo) Update(_ context.Context, w *domain.Workout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.workouts[w.ID]
	if !ok || existing.AthleteID != w.AthleteID {
		return repository.ErrNotFound
	}
	w.UpdatedAt = now()
	updated := *w
	updated.TrainingPlanID = existing.TrainingPlanID
	updated.CreatedAt = existing.CreatedAt
	r.s.workouts[w.ID] = cloneWorkout(updated)
	return nil
}

func (r *workoutRepo) ListByAthlete(_ context.Context, athleteID primitive.ObjectID, filter repository.WorkoutFilter) ([]domain.Workout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	workouts := []domain.Workout{}
	for _, w := range r.s.workouts {
		if w.AthleteID != athleteID {
			continue
		}
		if filter.From != nil && w.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && w.Date.After(*filter.To) {
			continue
		}
		workouts = append(workouts, cloneWorkout(w))
	}
	sort.Slice(workouts, func(i, j int) bool {
		return newerFirst(workouts[i].Date, workouts[j].Date, workouts[i].ID, workouts[j].ID)
	})
	if filter.Limit > 0 && int64(len(workouts)) > filter.Limit {
		workouts = workouts[:filter.Limit]
	}
	return workouts, nil
}

func (r *workoutRepo) CountByAthlete(_ context.Context, athleteID primitive.ObjectID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, w := range r.s.workouts {
		if w.AthleteID == athleteID {
			n++
		}
	}
	return n, nil
}

func (r *workoutRepo) CountAll(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.workouts)), nil
}

func (r *workoutRepo) CountByPlanCategory(_ context.Context, athleteID primitive.ObjectID) ([]domain.CategoryCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byCategory := map[domain.PlanCategory]int{}
	for _, w := range r.s.workouts {
		if w.AthleteID != athleteID {
			continue
		}
		plan, ok := r.s.plans[w.TrainingPlanID]
		if !ok {
			continue
		}
		byCategory[plan.Category]++
	}
	counts := []domain.CategoryCount{}
	for category, n := range byCategory {
		counts = append(counts, domain.CategoryCount{Category: category, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Category < counts[j].Category })
	return counts, nil
}

// --- performance ---

type performanceRepo struct{ s *Store }

func (r *performanceRepo) Create(_ context.Context, p *domain.Performance) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	r.s.performances[p.ID] = clonePerformance(*p)
	return p.ID, nil
}

func (r *performanceRepo) ListByAthlete(_ context.Context, athleteID primitive.ObjectID, limit int64) ([]domain.Performance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	records := []domain.Performance{}
	for _, p := range r.s.performances {
		if p.AthleteID == athleteID {
			records = append(records, clonePerformance(p))
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return newerFirst(records[i].Date, records[j].Date, records[i].ID, records[j].ID)
	})
	if limit > 0 && int64(len(records)) > limit {
		records = records[:limit]
	}
	return records, nil
}

// --- training plans ---

type planRepo struct{ s *Store }

func (r *planRepo) Create(_ context.Context, p *domain.TrainingPlan) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	if p.AthleteIDs == nil {
		p.AthleteIDs = []primitive.ObjectID{}
	}
	r.s.plans[p.ID] = clonePlan(*p)
	return p.ID, nil
}

func (r *planRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := clonePlan(p)
	return &out, nil
}

func (r *planRepo) Update(_ context.Context, p *domain.TrainingPlan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.plans[p.ID]
	if !ok || existing.CoachID != p.CoachID {
		return repository.ErrNotFound
	}
	p.UpdatedAt = now()
	updated := *p
	updated.CreatedAt = existing.CreatedAt
	r.s.plans[p.ID] = clonePlan(updated)
	return nil
}

func (r *planRepo) Delete(_ context.Context, planID, coachID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.plans[planID]
	if !ok || p.CoachID != coachID {
		return repository.ErrNotFound
	}
	delete(r.s.plans, planID)
	return nil
}

func (r *planRepo) ListByCoach(_ context.Context, coachID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	return r.list(func(p domain.TrainingPlan) bool { return p.CoachID == coachID },
		func(a, b domain.TrainingPlan) bool { return newerFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID) }), nil
}

func (r *planRepo) ListByAthlete(_ context.Context, athleteID primitive.ObjectID, status domain.PlanStatus) ([]domain.TrainingPlan, error) {
	return r.list(func(p domain.TrainingPlan) bool {
		return p.HasAthlete(athleteID) && (status == "" || p.Status == status)
	}, func(a, b domain.TrainingPlan) bool { return newerFirst(a.StartDate, b.StartDate, a.ID, b.ID) }), nil
}

func (r *planRepo) Count(_ context.Context, status domain.PlanStatus) (int64, error) {
	plans := r.list(func(p domain.TrainingPlan) bool { return status == "" || p.Status == status }, nil)
	return int64(len(plans)), nil
}

func (r *planRepo) list(match func(domain.TrainingPlan) bool, less func(a, b domain.TrainingPlan) bool) []domain.TrainingPlan {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	plans := []domain.TrainingPlan{}
	for _, p := range r.s.plans {
		if match(p) {
			plans = append(plans, clonePlan(p))
		}
	}
	if less != nil {
		sort.Slice(plans, func(i, j int) bool { return less(plans[i], plans[j]) })
	}
	return plans
}

// --- feedback ---

type feedbackRepo struct{ s *Store }

func (r *feedbackRepo) Create(_ context.Context, fb *domain.Feedback) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	fb.ID = primitive.NewObjectID()
	fb.CreatedAt = now()
	fb.UpdatedAt = fb.CreatedAt
	if fb.Status == "" {
		fb.Status = domain.FeedbackPending
	}
	r.s.feedback[fb.ID] = cloneFeedback(*fb)
	return fb.ID, nil
}

func (r *feedbackRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Feedback, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	fb, ok := r.s.feedback[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneFeedback(fb)
	return &out, nil
}

func (r *feedbackRepo) ListByAthlete(_ context.Context, athleteID primitive.ObjectID) ([]domain.Feedback, error) {
	return r.list(func(fb domain.Feedback) bool { return fb.AthleteID == athleteID }), nil
}

func (r *feedbackRepo) ListByCoach(_ context.Context, coachID primitive.ObjectID) ([]domain.Feedback, error) {
	return r.list(func(fb domain.Feedback) bool { return fb.CoachID == coachID }), nil
}

func (r *feedbackRepo) list(match func(domain.Feedback) bool) []domain.Feedback {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	items := []domain.Feedback{}
	for _, fb := range r.s.feedback {
		if match(fb) {
			items = append(items, cloneFeedback(fb))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return newerFirst(items[i].CreatedAt, items[j].CreatedAt, items[i].ID, items[j].ID)
	})
	return items
}

func (r *feedbackRepo) Respond(_ context.Context, id, coachID primitive.ObjectID, response string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	fb, ok := r.s.feedback[id]
	if !ok || fb.CoachID != coachID {
		return repository.ErrNotFound
	}
	fb.Response = response
	fb.Status = domain.FeedbackResponded
	fb.RespondedAt = &at
	fb.UpdatedAt = at
	r.s.feedback[id] = fb
	return nil
}

// --- injuries ---

type injuryRepo struct{ s *Store }

func (r *injuryRepo) Create(_ context.Context, injury *domain.Injury) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	injury.ID = primitive.NewObjectID()
	injury.CreatedAt = now()
	injury.UpdatedAt = injury.CreatedAt
	if injury.Status == "" {
		injury.Status = domain.InjuryActive
	}
	r.s.injuries[injury.ID] = cloneInjury(*injury)
	return injury.ID, nil
}

func (r *injuryRepo) ListByAthlete(_ context.Context, athleteID primitive.ObjectID) ([]domain.Injury, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	injuries := []domain.Injury{}
	for _, in := range r.s.injuries {
		if in.AthleteID == athleteID {
			injuries = append(injuries, cloneInjury(in))
		}
	}
	sort.Slice(injuries, func(i, j int) bool {
		return newerFirst(injuries[i].DateOccurred, injuries[j].DateOccurred, injuries[i].ID, injuries[j].ID)
	})
	return injuries, nil
}
