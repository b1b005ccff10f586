package service

import (
	"context"
	"time"

	"teamawesome_t4/internal/database"
	"teamawesome_t4/internal/model"
	"teamawesome_t4/internal/queue"
)

// Because every service depends on repository INTERFACES plus the TxRunner
// interface, unit tests swap in these mocks and never touch a database. The
// fake runner just invokes the closure; the mocks ignore the Querier they
// receive.

type fakeTxRunner struct {
	calls int
	err   error
}

func (f *fakeTxRunner) WithTx(ctx context.Context, fn func(q database.Querier) error) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type mockUserRepo struct {
	getByIDFn          func(id int64) (*model.User, error)
	getByUsernameFn    func(username string) (*model.User, error)
	existsByUsernameFn func(username string) (bool, error)
	existsByEmailFn    func(email string) (bool, error)
	createFn           func(user *model.User) error
}

func (m *mockUserRepo) Create(ctx context.Context, q database.Querier, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(user)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, q database.Querier, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, q database.Querier, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, q database.Querier, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(username)
	}
	return false, nil
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, q database.Querier, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(email)
	}
	return false, nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, q database.Querier, id int64, req model.UpdateProfileRequest) (*model.User, error) {
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepo) UpdatePicture(ctx context.Context, q database.Querier, id int64, url, key *string) error {
	return nil
}

func (m *mockUserRepo) Search(ctx context.Context, q database.Querier, query string, limit int) ([]model.UserSummary, error) {
	return nil, nil
}

type mockFollowRepo struct {
	createFn func(followerID, followingID int64) (bool, error)
	deleteFn func(followerID, followingID int64) (bool, error)
	existsFn func(followerID, followingID int64) (bool, error)

	createCalls [][2]int64
	deleteCalls [][2]int64
}

func (m *mockFollowRepo) Create(ctx context.Context, q database.Querier, followerID, followingID int64) (bool, error) {
	m.createCalls = append(m.createCalls, [2]int64{followerID, followingID})
	if m.createFn != nil {
		return m.createFn(followerID, followingID)
	}
	return true, nil
}

func (m *mockFollowRepo) Delete(ctx context.Context, q database.Querier, followerID, followingID int64) (bool, error) {
	m.deleteCalls = append(m.deleteCalls, [2]int64{followerID, followingID})
	if m.deleteFn != nil {
		return m.deleteFn(followerID, followingID)
	}
	return true, nil
}

func (m *mockFollowRepo) Exists(ctx context.Context, q database.Querier, followerID, followingID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(followerID, followingID)
	}
	return false, nil
}

func (m *mockFollowRepo) ListFollowers(ctx context.Context, q database.Querier, viewerID, userID int64) ([]model.FollowUserSummary, error) {
	return nil, nil
}

func (m *mockFollowRepo) ListFollowing(ctx context.Context, q database.Querier, viewerID, userID int64) ([]model.FollowUserSummary, error) {
	return nil, nil
}

type mockRequestRepo struct {
	getByPairFn           func(requesterID, targetID int64) (*model.FollowRequest, error)
	getPendingForTargetFn func(requestID, targetID int64) (*model.FollowRequest, error)
	updateStatusFn        func(requestID int64, status string) error

	upsertCalls        [][2]int64
	deleteByPairCalls  [][2]int64
	deletePendingCalls [][2]int64
	deletePendingOK    bool
	statusUpdates      map[int64]string
}

func (m *mockRequestRepo) GetByPair(ctx context.Context, q database.Querier, requesterID, targetID int64) (*model.FollowRequest, error) {
	if m.getByPairFn != nil {
		return m.getByPairFn(requesterID, targetID)
	}
	return nil, nil
}

func (m *mockRequestRepo) GetPendingForTarget(ctx context.Context, q database.Querier, requestID, targetID int64) (*model.FollowRequest, error) {
	if m.getPendingForTargetFn != nil {
		return m.getPendingForTargetFn(requestID, targetID)
	}
	return nil, nil
}

func (m *mockRequestRepo) UpsertPending(ctx context.Context, q database.Querier, requesterID, targetID int64) error {
	m.upsertCalls = append(m.upsertCalls, [2]int64{requesterID, targetID})
	return nil
}

func (m *mockRequestRepo) UpdateStatus(ctx context.Context, q database.Querier, requestID int64, status string) error {
	if m.statusUpdates == nil {
		m.statusUpdates = make(map[int64]string)
	}
	m.statusUpdates[requestID] = status
	if m.updateStatusFn != nil {
		return m.updateStatusFn(requestID, status)
	}
	return nil
}

func (m *mockRequestRepo) DeleteByPair(ctx context.Context, q database.Querier, requesterID, targetID int64) error {
	m.deleteByPairCalls = append(m.deleteByPairCalls, [2]int64{requesterID, targetID})
	return nil
}

func (m *mockRequestRepo) DeletePendingByPair(ctx context.Context, q database.Querier, requesterID, targetID int64) (bool, error) {
	m.deletePendingCalls = append(m.deletePendingCalls, [2]int64{requesterID, targetID})
	return m.deletePendingOK, nil
}

func (m *mockRequestRepo) ListPendingForTarget(ctx context.Context, q database.Querier, targetID int64) ([]model.PendingFollowRequest, error) {
	return nil, nil
}

type mockSummaryRepo struct {
	recomputeErr   error
	recomputeCalls []int64
	getFn          func(userID int64) (*model.FollowerSummary, error)
	userIDs        []int64
}

func (m *mockSummaryRepo) Recompute(ctx context.Context, q database.Querier, userID int64) error {
	m.recomputeCalls = append(m.recomputeCalls, userID)
	return m.recomputeErr
}

func (m *mockSummaryRepo) Get(ctx context.Context, q database.Querier, userID int64) (*model.FollowerSummary, error) {
	if m.getFn != nil {
		return m.getFn(userID)
	}
	return &model.FollowerSummary{UserID: userID}, nil
}

func (m *mockSummaryRepo) ListUserIDs(ctx context.Context, q database.Querier) ([]int64, error) {
	return m.userIDs, nil
}

type mockCollabRepo struct {
	getMembershipFn      func(projectID, userID int64) (*model.Collaborator, error)
	getActiveFn          func(projectID, userID int64) (*model.Collaborator, error)
	countActiveLeadersFn func(projectID int64) (int, error)
	isActiveLeaderFn     func(projectID, userID int64) (bool, error)
	acceptInviteFn       func(projectID, userID int64) (*model.Collaborator, error)
	deleteInviteFn       func(projectID, userID int64) (bool, error)
	listActiveFn         func(projectID int64) ([]model.CollaboratorDetail, error)

	inviteCalls       []inviteCall
	updateRoleCalls   []roleCall
	deactivateCalls   [][2]int64
	insertActiveCalls []inviteCall
}

type inviteCall struct {
	ProjectID int64
	UserID    int64
	Role      string
}

type roleCall struct {
	ProjectID int64
	UserID    int64
	Role      string
}

func (m *mockCollabRepo) GetMembership(ctx context.Context, q database.Querier, projectID, userID int64) (*model.Collaborator, error) {
	if m.getMembershipFn != nil {
		return m.getMembershipFn(projectID, userID)
	}
	return nil, nil
}

func (m *mockCollabRepo) GetActive(ctx context.Context, q database.Querier, projectID, userID int64) (*model.Collaborator, error) {
	if m.getActiveFn != nil {
		return m.getActiveFn(projectID, userID)
	}
	return nil, nil
}

func (m *mockCollabRepo) Invite(ctx context.Context, q database.Querier, projectID, userID int64, role string, invitedBy int64) (*model.Collaborator, error) {
	m.inviteCalls = append(m.inviteCalls, inviteCall{ProjectID: projectID, UserID: userID, Role: role})
	return &model.Collaborator{ProjectID: projectID, UserID: userID, Role: role, Status: model.CollaboratorInvited}, nil
}

func (m *mockCollabRepo) InsertActive(ctx context.Context, q database.Querier, projectID, userID int64, role string) (*model.Collaborator, error) {
	m.insertActiveCalls = append(m.insertActiveCalls, inviteCall{ProjectID: projectID, UserID: userID, Role: role})
	return &model.Collaborator{ProjectID: projectID, UserID: userID, Role: role, Status: model.CollaboratorActive}, nil
}

func (m *mockCollabRepo) UpdateRole(ctx context.Context, q database.Querier, projectID, userID int64, role string) (*model.Collaborator, error) {
	m.updateRoleCalls = append(m.updateRoleCalls, roleCall{ProjectID: projectID, UserID: userID, Role: role})
	return &model.Collaborator{ProjectID: projectID, UserID: userID, Role: role, Status: model.CollaboratorActive}, nil
}

func (m *mockCollabRepo) Deactivate(ctx context.Context, q database.Querier, projectID, userID int64) (*model.Collaborator, error) {
	m.deactivateCalls = append(m.deactivateCalls, [2]int64{projectID, userID})
	return &model.Collaborator{ProjectID: projectID, UserID: userID, Status: model.CollaboratorInactive}, nil
}

func (m *mockCollabRepo) AcceptInvite(ctx context.Context, q database.Querier, projectID, userID int64) (*model.Collaborator, error) {
	if m.acceptInviteFn != nil {
		return m.acceptInviteFn(projectID, userID)
	}
	return nil, model.ErrInviteNotFound
}

func (m *mockCollabRepo) DeleteInvite(ctx context.Context, q database.Querier, projectID, userID int64) (bool, error) {
	if m.deleteInviteFn != nil {
		return m.deleteInviteFn(projectID, userID)
	}
	return false, nil
}

func (m *mockCollabRepo) CountActiveLeaders(ctx context.Context, q database.Querier, projectID int64) (int, error) {
	if m.countActiveLeadersFn != nil {
		return m.countActiveLeadersFn(projectID)
	}
	return 1, nil
}

func (m *mockCollabRepo) IsActiveLeader(ctx context.Context, q database.Querier, projectID, userID int64) (bool, error) {
	if m.isActiveLeaderFn != nil {
		return m.isActiveLeaderFn(projectID, userID)
	}
	return false, nil
}

func (m *mockCollabRepo) ListActive(ctx context.Context, q database.Querier, projectID int64) ([]model.CollaboratorDetail, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(projectID)
	}
	return nil, nil
}

func (m *mockCollabRepo) ListInvitesForUser(ctx context.Context, q database.Querier, userID int64) ([]model.Invitation, error) {
	return nil, nil
}

type mockMilestoneRepo struct {
	getByIDFn       func(projectID, milestoneID int64) (*model.Milestone, error)
	nextOrderFn     func(projectID int64) (int, error)
	countProgressFn func(projectID int64) (total, completed int, err error)
	setOrderFn      func(projectID, milestoneID int64, orderIndex int) (bool, error)
	deleteFn        func(projectID, milestoneID int64) (bool, error)

	insertCalls       []insertMilestoneCall
	updateCalls       []model.MilestonePatch
	completedCalls    [][3]int64
	uncompletedCalls  [][2]int64
	setOrderCallCount int
}

type insertMilestoneCall struct {
	ProjectID  int64
	Name       string
	DueDate    time.Time
	OrderIndex int
}

func (m *mockMilestoneRepo) GetByID(ctx context.Context, q database.Querier, projectID, milestoneID int64) (*model.Milestone, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(projectID, milestoneID)
	}
	return nil, model.ErrMilestoneNotFound
}

func (m *mockMilestoneRepo) List(ctx context.Context, q database.Querier, projectID int64) ([]model.MilestoneDetail, error) {
	return nil, nil
}

func (m *mockMilestoneRepo) ListPlain(ctx context.Context, q database.Querier, projectID int64) ([]model.Milestone, error) {
	return nil, nil
}

func (m *mockMilestoneRepo) NextOrderIndex(ctx context.Context, q database.Querier, projectID int64) (int, error) {
	if m.nextOrderFn != nil {
		return m.nextOrderFn(projectID)
	}
	return 1, nil
}

func (m *mockMilestoneRepo) Insert(ctx context.Context, q database.Querier, projectID int64, name string, description *string, dueDate time.Time, orderIndex int) (*model.Milestone, error) {
	m.insertCalls = append(m.insertCalls, insertMilestoneCall{ProjectID: projectID, Name: name, DueDate: dueDate, OrderIndex: orderIndex})
	return &model.Milestone{ID: int64(len(m.insertCalls)), ProjectID: projectID, Name: name, Description: description, DueDate: dueDate, OrderIndex: orderIndex}, nil
}

func (m *mockMilestoneRepo) Update(ctx context.Context, q database.Querier, projectID, milestoneID int64, patch model.MilestonePatch) (*model.Milestone, error) {
	m.updateCalls = append(m.updateCalls, patch)
	updated := &model.Milestone{ID: milestoneID, ProjectID: projectID}
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	return updated, nil
}

func (m *mockMilestoneRepo) Delete(ctx context.Context, q database.Querier, projectID, milestoneID int64) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(projectID, milestoneID)
	}
	return true, nil
}

func (m *mockMilestoneRepo) SetCompleted(ctx context.Context, q database.Querier, projectID, milestoneID, completedBy int64) (*model.Milestone, error) {
	m.completedCalls = append(m.completedCalls, [3]int64{projectID, milestoneID, completedBy})
	now := time.Now()
	return &model.Milestone{ID: milestoneID, ProjectID: projectID, IsCompleted: true, CompletedBy: &completedBy, CompletedAt: &now}, nil
}

func (m *mockMilestoneRepo) SetUncompleted(ctx context.Context, q database.Querier, projectID, milestoneID int64) (*model.Milestone, error) {
	m.uncompletedCalls = append(m.uncompletedCalls, [2]int64{projectID, milestoneID})
	return &model.Milestone{ID: milestoneID, ProjectID: projectID, IsCompleted: false}, nil
}

func (m *mockMilestoneRepo) SetOrderIndex(ctx context.Context, q database.Querier, projectID, milestoneID int64, orderIndex int) (bool, error) {
	m.setOrderCallCount++
	if m.setOrderFn != nil {
		return m.setOrderFn(projectID, milestoneID, orderIndex)
	}
	return true, nil
}

func (m *mockMilestoneRepo) CountProgress(ctx context.Context, q database.Querier, projectID int64) (int, int, error) {
	if m.countProgressFn != nil {
		return m.countProgressFn(projectID)
	}
	return 0, 0, nil
}

type mockProjectRepo struct {
	getByIDFn func(projectID int64) (*model.SwinburneProject, error)

	progressUpdates map[int64]int
	projectIDs      []int64
}

func (m *mockProjectRepo) CreateSwinburne(ctx context.Context, q database.Querier, ownerID int64, req model.CreateSwinburneProjectRequest) (*model.SwinburneProject, error) {
	return &model.SwinburneProject{ID: 1, UnitCode: req.UnitCode, UnitName: req.UnitName, CollaborationStatus: req.CollaborationStatus}, nil
}

func (m *mockProjectRepo) GetByID(ctx context.Context, q database.Querier, projectID int64) (*model.SwinburneProject, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(projectID)
	}
	return nil, model.ErrProjectNotFound
}

func (m *mockProjectRepo) UpdateProgress(ctx context.Context, q database.Querier, projectID int64, percentage int) error {
	if m.progressUpdates == nil {
		m.progressUpdates = make(map[int64]int)
	}
	m.progressUpdates[projectID] = percentage
	return nil
}

func (m *mockProjectRepo) ListIDs(ctx context.Context, q database.Querier) ([]int64, error) {
	return m.projectIDs, nil
}

type mockPublisher struct {
	events []queue.RelationshipEvent
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.RelationshipEvent) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.events = append(m.events, event)
	return "1-0", nil
}
