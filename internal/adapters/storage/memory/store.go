// Package memory provides an in-process ports.Store used by tests and by
// the server's "memory" storage backend. It mirrors the row-store's
// declared semantics: soft-deleted teams vanish from reads, deletes
// cascade per the declared ownership rules, constraint violations surface
// as *domain.ConflictError with stable constraint identifiers, and the
// atomic survey procedure is simulated unless disabled.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sprintpulse/sprintpulse/internal/domain"
	"github.com/sprintpulse/sprintpulse/internal/ports"
)

// Compile-time check that Store implements ports.Store.
var _ ports.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithoutAtomicProcedure makes CreateSurveyWithQuestions report
// domain.ErrAtomicUnsupported, exercising callers' compensating fallback.
func WithoutAtomicProcedure() Option {
	return func(s *Store) { s.atomicUnsupported = true }
}

// Store is a mutex-guarded in-memory row store.
type Store struct {
	mu sync.RWMutex

	accounts           map[string]domain.Account
	accountMemberships map[string]map[string]domain.AccountMembership // account ID → user ID
	teams              map[string]domain.Team
	teamMemberships    map[string]map[string]domain.TeamMembership // team ID → user ID
	sprints            map[string]domain.Sprint
	workItems          map[string]domain.WorkItem
	surveys            map[string]domain.Survey
	questions          map[string]questionRow
	questionSeq        uint64
	responses          map[string]domain.SurveyResponse
	answers            map[string]domain.SurveyAnswer
	kudos              map[string]domain.Kudos

	atomicUnsupported bool
}

// questionRow pairs a question with its insertion sequence. Reads break
// order_index ties in insertion order, matching the row-store's secondary
// ordering on created_at and id.
type questionRow struct {
	question domain.SurveyQuestion
	seq      uint64
}

// putQuestionLocked stores a question row stamped with the next insertion
// sequence. Callers hold the write lock.
func (s *Store) putQuestionLocked(q domain.SurveyQuestion) {
	s.questionSeq++
	s.questions[q.ID] = questionRow{question: q, seq: s.questionSeq}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		accounts:           make(map[string]domain.Account),
		accountMemberships: make(map[string]map[string]domain.AccountMembership),
		teams:              make(map[string]domain.Team),
		teamMemberships:    make(map[string]map[string]domain.TeamMembership),
		sprints:            make(map[string]domain.Sprint),
		workItems:          make(map[string]domain.WorkItem),
		surveys:            make(map[string]domain.Survey),
		questions:          make(map[string]questionRow),
		responses:          make(map[string]domain.SurveyResponse),
		answers:            make(map[string]domain.SurveyAnswer),
		kudos:              make(map[string]domain.Kudos),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PutAccount seeds an account row directly, bypassing service policy.
// Intended for tests and for the server's bootstrap path.
func (s *Store) PutAccount(account domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.ID] = account
}

// PutAccountMembership seeds a membership row directly.
func (s *Store) PutAccountMembership(m domain.AccountMembership) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accountMemberships[m.AccountID] == nil {
		s.accountMemberships[m.AccountID] = make(map[string]domain.AccountMembership)
	}
	s.accountMemberships[m.AccountID][m.UserID] = m
}

// PutSurvey seeds a survey row directly, system templates included. The
// Questions slice is split off into question rows like a real insert, so
// reads do not see it twice.
func (s *Store) PutSurvey(survey domain.Survey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := survey
	row.Questions = nil
	s.surveys[survey.ID] = row
	for _, q := range survey.Questions {
		s.putQuestionLocked(q)
	}
}

func (s *Store) GetAccount(_ context.Context, id string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &account, nil
}

func (s *Store) GetAccountBySlug(_ context.Context, slug string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, account := range s.accounts {
		if account.Slug == slug {
			a := account
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) UpdateAccount(_ context.Context, account *domain.Account) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	s.accounts[account.ID] = *account
	updated := *account
	return &updated, nil
}

// DeleteAccount removes the account and everything it owns, following the
// declared cascade rules transitively.
func (s *Store) DeleteAccount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return domain.ErrNotFound
	}

	delete(s.accounts, id)
	delete(s.accountMemberships, id)

	for teamID, team := range s.teams {
		if team.AccountID == id {
			delete(s.teams, teamID)
			delete(s.teamMemberships, teamID)
		}
	}
	for sprintID, sprint := range s.sprints {
		if sprint.AccountID == id {
			delete(s.sprints, sprintID)
		}
	}
	for itemID, item := range s.workItems {
		if item.AccountID == id {
			delete(s.workItems, itemID)
		}
	}
	for surveyID, survey := range s.surveys {
		if survey.AccountID == id {
			s.deleteSurveyLocked(surveyID)
		}
	}
	for kudosID, k := range s.kudos {
		if k.AccountID == id {
			delete(s.kudos, kudosID)
		}
	}
	return nil
}

func (s *Store) CreateAccountMembership(_ context.Context, m *domain.AccountMembership) (*domain.AccountMembership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[m.AccountID]; !ok {
		return nil, domain.ErrNotFound
	}
	if s.accountMemberships[m.AccountID] == nil {
		s.accountMemberships[m.AccountID] = make(map[string]domain.AccountMembership)
	}
	if _, exists := s.accountMemberships[m.AccountID][m.UserID]; exists {
		return nil, &domain.ConflictError{Constraint: "account_memberships_pkey"}
	}
	s.accountMemberships[m.AccountID][m.UserID] = *m
	created := *m
	return &created, nil
}

func (s *Store) ListAccountMembershipsByUser(_ context.Context, userID string) ([]domain.AccountMembership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.AccountMembership
	for _, byUser := range s.accountMemberships {
		if m, ok := byUser[userID]; ok {
			out = append(out, m)
		}
	}
	sortMemberships(out)
	return out, nil
}

func (s *Store) ListAccountMembershipsByAccount(_ context.Context, accountID string) ([]domain.AccountMembership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.AccountMembership
	for _, m := range s.accountMemberships[accountID] {
		out = append(out, m)
	}
	sortMemberships(out)
	return out, nil
}

func (s *Store) CreateTeam(_ context.Context, team *domain.Team) (*domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[team.AccountID]; !ok {
		return nil, &domain.ConflictError{Constraint: "teams_account_id_fkey"}
	}
	if _, exists := s.teams[team.ID]; exists {
		return nil, &domain.ConflictError{Constraint: "teams_pkey"}
	}
	s.teams[team.ID] = *team
	created := *team
	return &created, nil
}

func (s *Store) GetTeam(_ context.Context, id string) (*domain.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	team, ok := s.teams[id]
	if !ok || team.Deleted() {
		return nil, domain.ErrNotFound
	}
	return &team, nil
}

func (s *Store) UpdateTeam(_ context.Context, team *domain.Team) (*domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.teams[team.ID]
	if !ok || existing.Deleted() {
		return nil, domain.ErrNotFound
	}
	s.teams[team.ID] = *team
	updated := *team
	return &updated, nil
}

// SoftDeleteTeam marks the row deleted without removing it. The stamp is
// copied from the row's UpdatedAt when unset by the caller chain; marking
// twice is not-found, matching a read-then-delete against a live row.
func (s *Store) SoftDeleteTeam(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, ok := s.teams[id]
	if !ok || team.Deleted() {
		return domain.ErrNotFound
	}
	stamp := team.UpdatedAt
	team.DeletedAt = &stamp
	s.teams[id] = team
	return nil
}

func (s *Store) ListTeams(_ context.Context, accountID string) ([]domain.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Team
	for _, team := range s.teams {
		if team.AccountID == accountID && !team.Deleted() {
			out = append(out, team)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateTeamMembership(_ context.Context, m *domain.TeamMembership) (*domain.TeamMembership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, ok := s.teams[m.TeamID]
	if !ok || team.Deleted() {
		return nil, &domain.ConflictError{Constraint: "team_memberships_team_id_fkey"}
	}
	if s.teamMemberships[m.TeamID] == nil {
		s.teamMemberships[m.TeamID] = make(map[string]domain.TeamMembership)
	}
	if _, exists := s.teamMemberships[m.TeamID][m.UserID]; exists {
		return nil, &domain.ConflictError{Constraint: "team_memberships_pkey"}
	}
	s.teamMemberships[m.TeamID][m.UserID] = *m
	created := *m
	return &created, nil
}

func (s *Store) ListTeamMembershipsByUser(_ context.Context, userID string) ([]domain.TeamMembership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.TeamMembership
	for teamID, byUser := range s.teamMemberships {
		team, ok := s.teams[teamID]
		if !ok || team.Deleted() {
			continue
		}
		if m, ok := byUser[userID]; ok {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}

func (s *Store) CreateSprint(_ context.Context, sprint *domain.Sprint) (*domain.Sprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, ok := s.teams[sprint.TeamID]
	if !ok || team.Deleted() {
		return nil, &domain.ConflictError{Constraint: "sprints_team_id_fkey"}
	}
	s.sprints[sprint.ID] = *sprint
	created := *sprint
	return &created, nil
}

func (s *Store) GetSprint(_ context.Context, id string) (*domain.Sprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sprint, ok := s.sprints[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sprint, nil
}

func (s *Store) UpdateSprint(_ context.Context, sprint *domain.Sprint) (*domain.Sprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sprints[sprint.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	s.sprints[sprint.ID] = *sprint
	updated := *sprint
	return &updated, nil
}

// DeleteSprint removes the sprint. The declared FK on work items is ON
// DELETE SET NULL, so referencing items return to the unscoped backlog;
// direct deletions are expected to be blocked upstream while items remain.
func (s *Store) DeleteSprint(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sprints[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sprints, id)

	for itemID, item := range s.workItems {
		if item.SprintID != nil && *item.SprintID == id {
			item.SprintID = nil
			s.workItems[itemID] = item
		}
	}
	return nil
}

func (s *Store) ListSprints(_ context.Context, teamID string) ([]domain.Sprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Sprint
	for _, sprint := range s.sprints {
		if sprint.TeamID == teamID {
			out = append(out, sprint)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CountWorkItemsBySprint(_ context.Context, sprintID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, item := range s.workItems {
		if item.SprintID != nil && *item.SprintID == sprintID {
			n++
		}
	}
	return n, nil
}

func (s *Store) CreateWorkItem(_ context.Context, item *domain.WorkItem) (*domain.WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, ok := s.teams[item.TeamID]
	if !ok || team.Deleted() {
		return nil, &domain.ConflictError{Constraint: "work_items_team_id_fkey"}
	}
	if item.SprintID != nil {
		if _, ok := s.sprints[*item.SprintID]; !ok {
			return nil, &domain.ConflictError{Constraint: "work_items_sprint_id_fkey"}
		}
	}
	s.workItems[item.ID] = *item
	created := *item
	return &created, nil
}

func (s *Store) GetWorkItem(_ context.Context, id string) (*domain.WorkItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.workItems[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &item, nil
}

func (s *Store) UpdateWorkItem(_ context.Context, item *domain.WorkItem) (*domain.WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workItems[item.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	if item.SprintID != nil {
		if _, ok := s.sprints[*item.SprintID]; !ok {
			return nil, &domain.ConflictError{Constraint: "work_items_sprint_id_fkey"}
		}
	}
	s.workItems[item.ID] = *item
	updated := *item
	return &updated, nil
}

func (s *Store) DeleteWorkItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workItems[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.workItems, id)
	return nil
}

func (s *Store) ListWorkItems(_ context.Context, filter ports.WorkItemFilter) ([]domain.WorkItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.WorkItem
	for _, item := range s.workItems {
		if filter.TeamID != "" && item.TeamID != filter.TeamID {
			continue
		}
		if filter.SprintID != "" && (item.SprintID == nil || *item.SprintID != filter.SprintID) {
			continue
		}
		if filter.AssigneeID != "" && (item.AssigneeID == nil || *item.AssigneeID != filter.AssigneeID) {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateSurvey(_ context.Context, survey *domain.Survey) (*domain.Survey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createSurveyLocked(survey)
}

func (s *Store) createSurveyLocked(survey *domain.Survey) (*domain.Survey, error) {
	if _, ok := s.accounts[survey.AccountID]; !ok {
		return nil, &domain.ConflictError{Constraint: "surveys_account_id_fkey"}
	}
	if survey.TeamID != nil {
		team, ok := s.teams[*survey.TeamID]
		if !ok || team.Deleted() {
			return nil, &domain.ConflictError{Constraint: "surveys_team_id_fkey"}
		}
	}
	row := *survey
	row.Questions = nil
	s.surveys[survey.ID] = row
	created := *survey
	return &created, nil
}

func (s *Store) GetSurvey(_ context.Context, id string) (*domain.Survey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	survey, ok := s.surveys[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	var rows []questionRow
	for _, row := range s.questions {
		if row.question.SurveyID == id {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].question.OrderIndex != rows[j].question.OrderIndex {
			return rows[i].question.OrderIndex < rows[j].question.OrderIndex
		}
		return rows[i].seq < rows[j].seq
	})
	survey.Questions = make([]domain.SurveyQuestion, len(rows))
	for i := range rows {
		survey.Questions[i] = rows[i].question
	}
	return &survey, nil
}

func (s *Store) UpdateSurvey(_ context.Context, survey *domain.Survey) (*domain.Survey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.surveys[survey.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	row := *survey
	row.Questions = nil
	s.surveys[survey.ID] = row
	updated := *survey
	return &updated, nil
}

func (s *Store) DeleteSurvey(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.surveys[id]; !ok {
		return domain.ErrNotFound
	}
	s.deleteSurveyLocked(id)
	return nil
}

// deleteSurveyLocked cascades through questions, responses, and answers.
func (s *Store) deleteSurveyLocked(id string) {
	delete(s.surveys, id)
	for questionID, row := range s.questions {
		if row.question.SurveyID == id {
			delete(s.questions, questionID)
		}
	}
	for responseID, r := range s.responses {
		if r.SurveyID == id {
			s.deleteResponseLocked(responseID)
		}
	}
}

func (s *Store) ListSurveys(_ context.Context, accountID string) ([]domain.Survey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Survey
	for _, survey := range s.surveys {
		if survey.AccountID == accountID {
			out = append(out, survey)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateSurveyQuestions(_ context.Context, questions []domain.SurveyQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range questions {
		if _, ok := s.surveys[q.SurveyID]; !ok {
			return &domain.ConflictError{Constraint: "survey_questions_survey_id_fkey"}
		}
	}
	for _, q := range questions {
		s.putQuestionLocked(q)
	}
	return nil
}

// CreateSurveyWithQuestions simulates the server-side atomic procedure:
// membership is re-verified under the same lock as the writes, and no row
// lands unless every row can.
func (s *Store) CreateSurveyWithQuestions(_ context.Context, actorID string, survey *domain.Survey, questions []domain.SurveyQuestion) (*domain.Survey, error) {
	if s.atomicUnsupported {
		return nil, domain.ErrAtomicUnsupported
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accountMemberships[survey.AccountID][actorID]; !ok {
		return nil, &domain.DenyError{Reason: domain.ReasonNotAccountMember, Detail: "not an account member"}
	}

	created, err := s.createSurveyLocked(survey)
	if err != nil {
		return nil, err
	}
	for _, q := range questions {
		s.putQuestionLocked(q)
	}

	created.Questions = append([]domain.SurveyQuestion(nil), questions...)
	domain.SortQuestions(created.Questions)
	return created, nil
}

func (s *Store) CreateSurveyResponse(_ context.Context, response *domain.SurveyResponse, answers []domain.SurveyAnswer) (*domain.SurveyResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.surveys[response.SurveyID]; !ok {
		return nil, &domain.ConflictError{Constraint: "survey_responses_survey_id_fkey"}
	}
	if _, ok := s.sprints[response.SprintID]; !ok {
		return nil, &domain.ConflictError{Constraint: "survey_responses_sprint_id_fkey"}
	}

	row := *response
	row.Answers = nil
	s.responses[response.ID] = row
	for _, a := range answers {
		s.answers[a.ID] = a
	}

	created := *response
	created.Answers = append([]domain.SurveyAnswer(nil), answers...)
	return &created, nil
}

func (s *Store) GetSurveyResponse(_ context.Context, id string) (*domain.SurveyResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	response, ok := s.responses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for _, a := range s.answers {
		if a.ResponseID == id {
			response.Answers = append(response.Answers, a)
		}
	}
	sort.Slice(response.Answers, func(i, j int) bool {
		return response.Answers[i].ID < response.Answers[j].ID
	})
	return &response, nil
}

func (s *Store) DeleteSurveyResponse(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.responses[id]; !ok {
		return domain.ErrNotFound
	}
	s.deleteResponseLocked(id)
	return nil
}

// deleteResponseLocked cascades through answers.
func (s *Store) deleteResponseLocked(id string) {
	delete(s.responses, id)
	for answerID, a := range s.answers {
		if a.ResponseID == id {
			delete(s.answers, answerID)
		}
	}
}

func (s *Store) ListSurveyResponses(_ context.Context, surveyID, sprintID string) ([]domain.SurveyResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.SurveyResponse
	for _, r := range s.responses {
		if r.SurveyID == surveyID && r.SprintID == sprintID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateKudos(_ context.Context, kudos *domain.Kudos) (*domain.Kudos, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, ok := s.teams[kudos.TeamID]
	if !ok || team.Deleted() {
		return nil, &domain.ConflictError{Constraint: "kudos_team_id_fkey"}
	}
	s.kudos[kudos.ID] = *kudos
	created := *kudos
	return &created, nil
}

func (s *Store) GetKudos(_ context.Context, id string) (*domain.Kudos, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	kudos, ok := s.kudos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &kudos, nil
}

func (s *Store) DeleteKudos(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.kudos[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.kudos, id)
	return nil
}

func (s *Store) ListKudos(_ context.Context, teamID string) ([]domain.Kudos, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Kudos
	for _, k := range s.kudos {
		if k.TeamID == teamID {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func sortMemberships(memberships []domain.AccountMembership) {
	sort.Slice(memberships, func(i, j int) bool {
		if memberships[i].AccountID != memberships[j].AccountID {
			return memberships[i].AccountID < memberships[j].AccountID
		}
		return memberships[i].UserID < memberships[j].UserID
	})
}
