package server

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/placify/internal/db"
)

// memStore is an in-memory Store for handler tests. Lookups mirror the
// Postgres implementation: missing rows yield (nil, nil).
type memStore struct {
	mu          sync.Mutex
	now         func() time.Time
	users       map[uuid.UUID]*db.User
	tokens      map[uuid.UUID]*db.ResetToken
	jobs        map[uuid.UUID]*db.Job
	apps        []db.Application
	scores      []*db.ResumeScore
	questions   map[uuid.UUID]*db.Question
	resumes     []*db.Resume
	experiences []*db.InterviewExperience
	pingErr     error
}

var _ Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		now:       tickingClock(),
		users:     make(map[uuid.UUID]*db.User),
		tokens:    make(map[uuid.UUID]*db.ResetToken),
		jobs:      make(map[uuid.UUID]*db.Job),
		questions: make(map[uuid.UUID]*db.Question),
	}
}

// tickingClock advances one second per call so insertion order is
// reflected in timestamps.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }

// Users

func (m *memStore) CreateUser(_ context.Context, in db.NewUser) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email := strings.ToLower(in.Email)
	for _, u := range m.users {
		if u.Email == email {
			return nil, db.ErrDuplicate
		}
	}
	u := &db.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
		Name:         in.Name,
		Phone:        in.Phone,
		CreatedAt:    m.now(),
		UpdatedAt:    m.now(),
	}
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *memStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := m.GetUserByEmail(ctx, email)
	return u != nil, err
}

func (m *memStore) UpdateProfile(_ context.Context, id uuid.UUID, p db.ProfileUpdate) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&u.Name, p.Name)
	set(&u.Phone, p.Phone)
	set(&u.Address, p.Address)
	set(&u.Gender, p.Gender)
	set(&u.Education, p.Education)
	set(&u.ProfileImage, p.ProfileImage)
	if p.DOB != nil {
		dob := *p.DOB
		u.DOB = &dob
	}
	if p.Skills != nil {
		u.Skills = slices.Clone(*p.Skills)
	}
	u.UpdatedAt = m.now()
	cp := *u
	return &cp, nil
}

// Reset tokens

func (m *memStore) CreateResetToken(_ context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens {
		if t.UserID == userID {
			t.Used = true
		}
	}
	t := &db.ResetToken{ID: uuid.New(), UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt, CreatedAt: m.now()}
	m.tokens[t.ID] = t
	return nil
}

func (m *memStore) GetResetToken(_ context.Context, tokenHash string) (*db.ResetToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens {
		if t.TokenHash == tokenHash {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) ConsumeResetToken(_ context.Context, tokenID, userID uuid.UUID, passwordHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[tokenID]
	if !ok || t.Used || t.UserID != userID {
		return false, nil
	}
	u, ok := m.users[userID]
	if !ok {
		return false, nil
	}
	t.Used = true
	u.PasswordHash = passwordHash
	return true, nil
}

func (m *memStore) DeleteExpiredResetTokens(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	var n int64
	for id, t := range m.tokens {
		if t.Used || !t.ExpiresAt.After(now) {
			delete(m.tokens, id)
			n++
		}
	}
	return n, nil
}

// Jobs

func (m *memStore) CreateJob(_ context.Context, in db.NewJob) (*db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	company, ok := m.users[in.CompanyID]
	if !ok {
		return nil, errors.New("company does not exist")
	}
	j := &db.Job{
		ID:               uuid.New(),
		CompanyID:        in.CompanyID,
		CompanyName:      company.Name,
		Title:            in.Title,
		Type:             in.Type,
		Domain:           in.Domain,
		Location:         in.Location,
		Status:           db.JobStatusOpen,
		Salary:           in.Salary,
		Description:      in.Description,
		Requirements:     in.Requirements,
		Responsibilities: in.Responsibilities,
		CreatedAt:        m.now(),
		UpdatedAt:        m.now(),
	}
	m.jobs[j.ID] = j
	return m.jobView(j), nil
}

// jobView copies j with its current applicant count. Callers hold mu.
func (m *memStore) jobView(j *db.Job) *db.Job {
	cp := *j
	cp.ApplicantCount = 0
	for _, a := range m.apps {
		if a.JobID == j.ID {
			cp.ApplicantCount++
		}
	}
	return &cp
}

func (m *memStore) GetJob(_ context.Context, id uuid.UUID) (*db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, nil
	}
	return m.jobView(j), nil
}

func (m *memStore) ListJobs(_ context.Context, f db.JobFilters) ([]db.Job, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []db.Job
	for _, j := range m.jobs {
		if f.Status != "" && j.Status != f.Status {
			continue
		}
		if f.CompanyID != uuid.Nil && j.CompanyID != f.CompanyID {
			continue
		}
		all = append(all, *m.jobView(j))
	}
	sort.Slice(all, func(a, b int) bool { return all[a].CreatedAt.After(all[b].CreatedAt) })
	return paginate(all, f.Page, f.Limit), len(all), nil
}

func (m *memStore) UpdateJob(_ context.Context, id uuid.UUID, u db.JobUpdate) (*db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, nil
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&j.Title, u.Title)
	set(&j.Type, u.Type)
	set(&j.Domain, u.Domain)
	set(&j.Location, u.Location)
	set(&j.Status, u.Status)
	set(&j.Salary, u.Salary)
	set(&j.Description, u.Description)
	if u.Requirements != nil {
		j.Requirements = *u.Requirements
	}
	if u.Responsibilities != nil {
		j.Responsibilities = *u.Responsibilities
	}
	return m.jobView(j), nil
}

func (m *memStore) DeleteJob(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return false, nil
	}
	delete(m.jobs, id)
	m.apps = slices.DeleteFunc(m.apps, func(a db.Application) bool { return a.JobID == id })
	return true, nil
}

func (m *memStore) ApplyToJob(_ context.Context, jobID, userID uuid.UUID, resume string) (*db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.JobID == jobID && a.UserID == userID {
			return nil, db.ErrDuplicate
		}
	}
	a := db.Application{ID: uuid.New(), JobID: jobID, UserID: userID, Resume: resume, AppliedAt: m.now()}
	m.apps = append(m.apps, a)
	return &a, nil
}

func (m *memStore) ListApplicationsByUser(_ context.Context, userID uuid.UUID) ([]db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Application{}
	for _, a := range m.apps {
		if a.UserID != userID {
			continue
		}
		if j, ok := m.jobs[a.JobID]; ok {
			a.Job = m.jobView(j)
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *memStore) WithdrawApplication(_ context.Context, jobID, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.apps)
	m.apps = slices.DeleteFunc(m.apps, func(a db.Application) bool { return a.JobID == jobID && a.UserID == userID })
	return len(m.apps) < before, nil
}

// Scores

func (m *memStore) SaveResumeScore(_ context.Context, s *db.ResumeScore) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = uuid.New()
	s.CreatedAt = m.now()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	m.scores = append(m.scores, &cp)
	return nil
}

func (m *memStore) liveScores(userID uuid.UUID) []db.ResumeScore {
	var out []db.ResumeScore
	for _, s := range m.scores {
		if !s.IsDeleted && (userID == uuid.Nil || s.UserID == userID) {
			out = append(out, *s)
		}
	}
	return out
}

func (m *memStore) ListResumeScores(_ context.Context, f db.ScoreFilters) ([]db.ResumeScore, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.liveScores(f.UserID)
	less := func(a, b db.ResumeScore) bool {
		if f.SortBy == db.ScoreSortScore {
			return a.Score < b.Score
		}
		return a.CreatedAt.Before(b.CreatedAt)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if f.Ascending {
			return less(all[i], all[j])
		}
		return less(all[j], all[i])
	})
	return paginate(all, f.Page, f.Limit), len(all), nil
}

func (m *memStore) ListAllResumeScores(_ context.Context, userID uuid.UUID) ([]db.ResumeScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.liveScores(userID)
	if out == nil {
		out = []db.ResumeScore{}
	}
	return out, nil
}

func (m *memStore) LatestResumeScore(_ context.Context, userID uuid.UUID) (*db.ResumeScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	live := m.liveScores(userID)
	if len(live) == 0 {
		return nil, nil
	}
	latest := live[len(live)-1]
	return &latest, nil
}

func (m *memStore) SoftDeleteResumeScore(_ context.Context, id, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.scores {
		if s.ID == id && s.UserID == userID && !s.IsDeleted {
			s.IsDeleted = true
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ResumeScoreDistribution(context.Context) (*db.ScoreDistribution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := &db.ScoreDistribution{Buckets: make([]int, len(db.ScoreBucketBounds)-1)}
	users := make(map[uuid.UUID]bool)
	sum := 0
	for _, s := range m.liveScores(uuid.Nil) {
		d.TotalScores++
		sum += s.Score
		users[s.UserID] = true
		bucket := min(s.Score*(len(d.Buckets))/100, len(d.Buckets)-1)
		d.Buckets[bucket]++
	}
	d.UniqueUsers = len(users)
	if d.TotalScores > 0 {
		d.AverageScore = float64(sum) / float64(d.TotalScores)
	}
	return d, nil
}

// Questions

func (m *memStore) CreateQuestion(_ context.Context, q *db.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q.ID = uuid.New()
	q.CreatedAt = m.now()
	cp := *q
	m.questions[q.ID] = &cp
	return nil
}

func (m *memStore) GetQuestion(_ context.Context, id uuid.UUID) (*db.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (m *memStore) ListQuestions(_ context.Context, f db.QuestionFilters) ([]db.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Question{}
	for _, q := range m.questions {
		if f.Topic != "" && !strings.EqualFold(q.Topic, f.Topic) {
			continue
		}
		if f.Difficulty != "" && !strings.EqualFold(q.Difficulty, f.Difficulty) {
			continue
		}
		out = append(out, *q)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Resumes

func (m *memStore) CreateResume(_ context.Context, r *db.Resume) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = uuid.New()
	r.IsActive = true
	r.Version = 1
	r.CreatedAt = m.now()
	r.UpdatedAt = r.CreatedAt
	cp := *r
	m.resumes = append(m.resumes, &cp)
	return nil
}

// ownedResume finds an active resume of userID. Callers hold mu.
func (m *memStore) ownedResume(id, userID uuid.UUID) *db.Resume {
	for _, r := range m.resumes {
		if r.ID == id && r.UserID == userID && r.IsActive {
			return r
		}
	}
	return nil
}

func (m *memStore) GetResume(_ context.Context, id, userID uuid.UUID) (*db.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.ownedResume(id, userID)
	if r == nil {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) ListResumes(_ context.Context, userID uuid.UUID) ([]db.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Resume{}
	for _, r := range m.resumes {
		if r.UserID == userID && r.IsActive {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].UpdatedAt.After(out[b].UpdatedAt) })
	return out, nil
}

func (m *memStore) UpdateResume(_ context.Context, id, userID uuid.UUID, u db.ResumeUpdate) (*db.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.ownedResume(id, userID)
	if r == nil {
		return nil, nil
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&r.FullName, u.FullName)
	set(&r.Email, u.Email)
	set(&r.Phone, u.Phone)
	set(&r.Summary, u.Summary)
	if u.Skills != nil {
		r.Skills = *u.Skills
	}
	if u.Education != nil {
		r.Education = *u.Education
	}
	if u.WorkExperience != nil {
		r.WorkExperience = *u.WorkExperience
	}
	if u.Projects != nil {
		r.Projects = *u.Projects
	}
	r.Version++
	r.UpdatedAt = m.now()
	cp := *r
	return &cp, nil
}

func (m *memStore) DeactivateResume(_ context.Context, id, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.ownedResume(id, userID)
	if r == nil {
		return false, nil
	}
	r.IsActive = false
	return true, nil
}

func (m *memStore) GetResumeStats(_ context.Context, userID uuid.UUID) (*db.ResumeStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var s db.ResumeStats
	var skills, edu, work, projects int
	for _, r := range m.resumes {
		if r.UserID != userID || !r.IsActive {
			continue
		}
		s.TotalResumes++
		skills += len(r.Skills)
		edu += len(r.Education)
		work += len(r.WorkExperience)
		projects += len(r.Projects)
		if s.LastUpdated == nil || r.UpdatedAt.After(*s.LastUpdated) {
			t := r.UpdatedAt
			s.LastUpdated = &t
		}
	}
	if n := float64(s.TotalResumes); n > 0 {
		s.AverageSkills = float64(skills) / n
		s.AverageEducation = float64(edu) / n
		s.AverageExperience = float64(work) / n
		s.AverageProjects = float64(projects) / n
	}
	return &s, nil
}

// Interview experiences

func (m *memStore) CreateInterviewExperience(_ context.Context, e *db.InterviewExperience) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = uuid.New()
	e.CreatedAt = m.now()
	cp := *e
	m.experiences = append(m.experiences, &cp)
	return nil
}

func (m *memStore) GetInterviewExperience(_ context.Context, id uuid.UUID) (*db.InterviewExperience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.experiences {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

// visibleExperiences returns approved public experiences. Callers hold mu.
func (m *memStore) visibleExperiences() []db.InterviewExperience {
	out := []db.InterviewExperience{}
	for _, e := range m.experiences {
		if e.IsApproved && e.IsPublic {
			out = append(out, *e)
		}
	}
	return out
}

func (m *memStore) ListInterviewExperiences(_ context.Context, f db.ExperienceFilters) ([]db.InterviewExperience, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.visibleExperiences()
	less := func(a, b db.InterviewExperience) bool {
		if f.SortBy == db.ExperienceSortRating {
			return a.Rating < b.Rating
		}
		return a.CreatedAt.Before(b.CreatedAt)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if f.Ascending {
			return less(all[i], all[j])
		}
		return less(all[j], all[i])
	})
	return paginate(all, f.Page, f.Limit), len(all), nil
}

func (m *memStore) GetInterviewStats(context.Context) (*db.InterviewStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &db.InterviewStats{ByType: map[string]int{}, ByDifficulty: map[string]int{}, TopCompanies: []db.CompanyInterviewStats{}}
	companies := map[string]*db.CompanyInterviewStats{}
	sum := 0
	for _, e := range m.visibleExperiences() {
		s.TotalExperiences++
		sum += e.Rating
		s.ByType[e.InterviewType]++
		s.ByDifficulty[e.Difficulty]++
		c, ok := companies[e.Company]
		if !ok {
			c = &db.CompanyInterviewStats{Company: e.Company}
			companies[e.Company] = c
		}
		c.Count++
		c.AverageRating += float64(e.Rating)
	}
	if s.TotalExperiences > 0 {
		s.AverageRating = float64(sum) / float64(s.TotalExperiences)
	}
	s.UniqueCompanies = len(companies)
	for _, c := range companies {
		c.AverageRating /= float64(c.Count)
		s.TopCompanies = append(s.TopCompanies, *c)
	}
	sort.Slice(s.TopCompanies, func(a, b int) bool {
		x, y := s.TopCompanies[a], s.TopCompanies[b]
		if x.Count != y.Count {
			return x.Count > y.Count
		}
		return x.Company < y.Company
	})
	if len(s.TopCompanies) > 5 {
		s.TopCompanies = s.TopCompanies[:5]
	}
	return s, nil
}

// Dashboard

func (m *memStore) GetStudentActivity(_ context.Context, userID uuid.UUID) (*db.StudentActivity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var a db.StudentActivity
	for _, app := range m.apps {
		if app.UserID == userID {
			a.Applications++
		}
	}
	for _, r := range m.resumes {
		if r.UserID == userID && r.IsActive {
			a.Resumes++
		}
	}
	live := m.liveScores(userID)
	a.ScoreCount = len(live)
	if len(live) > 0 {
		latest := live[len(live)-1].Score
		a.LatestScore = &latest
		best := 0
		for _, s := range live {
			best = max(best, s.Score)
		}
		a.BestScore = &best
	}
	return &a, nil
}

func (m *memStore) GetCompanyActivity(_ context.Context, companyID uuid.UUID) (*db.CompanyActivity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var a db.CompanyActivity
	for _, j := range m.jobs {
		if j.CompanyID != companyID {
			continue
		}
		a.JobsPosted++
		if j.Status == db.JobStatusOpen {
			a.OpenJobs++
		}
		a.TotalApplicants += m.jobView(j).ApplicantCount
	}
	return &a, nil
}

func paginate[T any](all []T, page, limit int) []T {
	if limit <= 0 {
		if all == nil {
			return []T{}
		}
		return all
	}
	page = max(page, 1)
	start := (page - 1) * limit
	if start >= len(all) {
		return []T{}
	}
	return all[start:min(start+limit, len(all))]
}
