package users

import (
	"context"
	"errors"
	"testing"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/db"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/testutil"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/validation"
)

var adminPrincipal = &auth.Principal{UserID: "sub-admin", LocalUserID: 1, Roles: []string{"ADMIN"}}

// TestCreateUser_Success tests account creation, event and audit entry
func TestCreateUser_Success(t *testing.T) {
	mockRepo := &mockRepository{
		createFunc: func(u *User) error {
			u.ID = 12
			u.CustomID = "DOC-0003"
			u.IsActive = true
			return nil
		},
	}
	publisher := testutil.NewMockPublisher()
	recorder := &recordingActivity{}
	service := NewService(mockRepo, publisher, recorder)

	req := CreateUserRequest{
		Username:    "dr.okafor",
		Email:       "okafor@clinic.test",
		FirstName:   "Chidi",
		LastName:    "Okafor",
		Role:        RoleProvider,
		Designation: "doctor",
	}

	user, err := service.CreateUser(context.Background(), req, adminPrincipal)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if user.CustomID != "DOC-0003" {
		t.Errorf("Expected custom id DOC-0003, got %s", user.CustomID)
	}
	if user.CreatedBy == nil || *user.CreatedBy != 1 {
		t.Errorf("Expected created_by 1, got %v", user.CreatedBy)
	}

	publisher.AssertEventCount(t, messaging.EventUserCreated, 1)
	event, ok := publisher.GetLastEvent().EventData.(messaging.UserCreatedEvent)
	if !ok {
		t.Fatalf("Expected UserCreatedEvent, got %T", publisher.GetLastEvent().EventData)
	}
	if event.Data.Role != "provider" || event.Data.UserID != 12 {
		t.Errorf("Unexpected event data: %+v", event.Data)
	}

	if len(recorder.entries) != 1 || recorder.entries[0].action != "create_user" {
		t.Errorf("Expected one create_user activity entry, got %+v", recorder.entries)
	}
}

// TestCreateUser_Validation tests request validation before any write
func TestCreateUser_Validation(t *testing.T) {
	testCases := []struct {
		name string
		req  CreateUserRequest
		want error
	}{
		{"missing username", CreateUserRequest{FirstName: "A", LastName: "B", Role: RoleMother}, validation.ErrInvalid},
		{"unknown role", CreateUserRequest{Username: "abc", FirstName: "A", LastName: "B", Role: "nurse"}, validation.ErrInvalid},
		{"bad email", CreateUserRequest{Username: "abc", Email: "nope", FirstName: "A", LastName: "B", Role: RoleAdmin}, validation.ErrInvalid},
		{"designation on mother", CreateUserRequest{Username: "abc", FirstName: "A", LastName: "B", Role: RoleMother, Designation: "nurse"}, ErrDesignationNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &mockRepository{
				createFunc: func(u *User) error {
					t.Fatal("Create should not be called")
					return nil
				},
			}
			service := NewService(mockRepo, nil, nil)

			_, err := service.CreateUser(context.Background(), tc.req, adminPrincipal)
			if !errors.Is(err, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
		})
	}
}

// TestCreateUser_UsernameTaken tests that conflicts are surfaced unchanged
func TestCreateUser_UsernameTaken(t *testing.T) {
	mockRepo := &mockRepository{
		createFunc: func(u *User) error { return ErrUsernameTaken },
	}
	publisher := testutil.NewMockPublisher()
	service := NewService(mockRepo, publisher, nil)

	_, err := service.CreateUser(context.Background(), CreateUserRequest{
		Username: "taken", FirstName: "A", LastName: "B", Role: RoleAdmin,
	}, adminPrincipal)

	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("Expected ErrUsernameTaken, got %v", err)
	}
	publisher.AssertEventNotPublished(t, messaging.EventUserCreated)
}

// TestListUsers_Pagination tests filter translation and pagination meta
func TestListUsers_Pagination(t *testing.T) {
	var got ListFilter
	mockRepo := &mockRepository{
		listFunc: func(f ListFilter) ([]User, int, error) {
			got = f
			return []User{{ID: 1}, {ID: 2}}, 42, nil
		},
	}
	service := NewService(mockRepo, nil, nil)

	resp, err := service.ListUsers(context.Background(), RoleMother, pagination.Params{Page: 3, Limit: 10, Search: "bello"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got.Role != RoleMother || got.Search != "bello" || got.Limit != 10 || got.Offset != 20 {
		t.Errorf("Unexpected filter: %+v", got)
	}
	if resp.Pagination.TotalRecords != 42 || resp.Pagination.TotalPages != 5 {
		t.Errorf("Unexpected meta: %+v", resp.Pagination)
	}
}

// TestListUsers_InvalidRole tests rejection of unknown role filters
func TestListUsers_InvalidRole(t *testing.T) {
	service := NewService(&mockRepository{}, nil, nil)
	_, err := service.ListUsers(context.Background(), "superuser", pagination.Params{Page: 1, Limit: 10})
	if !errors.Is(err, ErrInvalidRole) {
		t.Errorf("Expected ErrInvalidRole, got %v", err)
	}
}

// TestDeleteUser_Self tests that admins cannot deactivate themselves
func TestDeleteUser_Self(t *testing.T) {
	service := NewService(&mockRepository{}, nil, nil)
	err := service.DeleteUser(context.Background(), 1, adminPrincipal)
	if !errors.Is(err, ErrCannotDeactivateSelf) {
		t.Errorf("Expected ErrCannotDeactivateSelf, got %v", err)
	}
}

// TestDeleteUser_Success tests deactivation and the published event
func TestDeleteUser_Success(t *testing.T) {
	deactivated := int64(0)
	mockRepo := &mockRepository{
		getByIDFunc: func(id int64) (*User, error) {
			return &User{ID: id, Role: RoleMother, Username: "mama", CustomID: "MOM-0001"}, nil
		},
		deactivateFunc: func(id int64) error {
			deactivated = id
			return nil
		},
	}
	publisher := testutil.NewMockPublisher()
	service := NewService(mockRepo, publisher, nil)

	if err := service.DeleteUser(context.Background(), 9, adminPrincipal); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if deactivated != 9 {
		t.Errorf("Expected user 9 deactivated, got %d", deactivated)
	}
	publisher.AssertEventPublished(t, messaging.EventUserDeactivated)
}

// TestUpdateUser_DeactivateSelf tests the is_active guard on update
func TestUpdateUser_DeactivateSelf(t *testing.T) {
	inactive := false
	service := NewService(&mockRepository{}, nil, nil)
	_, err := service.UpdateUser(context.Background(), 1, UpdateUserRequest{IsActive: &inactive}, adminPrincipal)
	if !errors.Is(err, ErrCannotDeactivateSelf) {
		t.Errorf("Expected ErrCannotDeactivateSelf, got %v", err)
	}
}

// TestMe tests the identity summary name chain
func TestMe(t *testing.T) {
	mockRepo := &mockRepository{
		getByIDFunc: func(id int64) (*User, error) {
			return &User{ID: id, Username: "mama.ngozi", Role: RoleMother, CustomID: "MOM-0004"}, nil
		},
	}
	service := NewService(mockRepo, nil, nil)

	me, err := service.Me(context.Background(), &auth.Principal{LocalUserID: 4})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if me.Name != "mama.ngozi" || me.CustomID != "MOM-0004" || me.Role != RoleMother {
		t.Errorf("Unexpected me response: %+v", me)
	}
}

// TestUpdateMe_OnlyProfileFields tests that only contact fields are forwarded
func TestUpdateMe_OnlyProfileFields(t *testing.T) {
	phone := "+2348000000000"
	var got UpdateUserRequest
	mockRepo := &mockRepository{
		updateFunc: func(id int64, req UpdateUserRequest) (*User, error) {
			got = req
			return &User{ID: id, FirstName: "Ngozi", LastName: "Eze", PhoneNumber: phone}, nil
		},
	}
	service := NewService(mockRepo, nil, nil)

	me, err := service.UpdateMe(context.Background(), UpdateProfileRequest{PhoneNumber: &phone}, &auth.Principal{LocalUserID: 4})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got.PhoneNumber == nil || *got.PhoneNumber != phone || got.FirstName != nil || got.IsActive != nil {
		t.Errorf("Unexpected update request: %+v", got)
	}
	if me.Name != "Ngozi Eze" {
		t.Errorf("Expected Ngozi Eze, got %s", me.Name)
	}
}

// TestResolve tests linking by subject and by username
func TestResolve(t *testing.T) {
	t.Run("known subject", func(t *testing.T) {
		mockRepo := &mockRepository{
			getBySubjectFunc: func(sub string) (*User, error) {
				return &User{ID: 3, Role: RoleProvider, IsActive: true}, nil
			},
		}
		u, err := NewService(mockRepo, nil, nil).Resolve(context.Background(), &auth.Principal{UserID: "sub-3"})
		if err != nil || u.ID != 3 {
			t.Errorf("Expected user 3, got %+v, %v", u, err)
		}
	})

	t.Run("links by username", func(t *testing.T) {
		linked := ""
		mockRepo := &mockRepository{
			getBySubjectFunc: func(sub string) (*User, error) { return nil, ErrUserNotFound },
			getByUsernameFunc: func(username string) (*User, error) {
				return &User{ID: 5, Username: username, Role: RoleMother, IsActive: true}, nil
			},
			linkSubjectFunc: func(id int64, sub string) error {
				linked = sub
				return nil
			},
		}
		u, err := NewService(mockRepo, nil, nil).Resolve(context.Background(), &auth.Principal{UserID: "sub-5", Username: "mama"})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if linked != "sub-5" || u.AuthSubject == nil || *u.AuthSubject != "sub-5" {
			t.Errorf("Expected subject sub-5 to be linked, got %q", linked)
		}
	})

	t.Run("username bound to another subject", func(t *testing.T) {
		other := "sub-other"
		mockRepo := &mockRepository{
			getBySubjectFunc: func(sub string) (*User, error) { return nil, ErrUserNotFound },
			getByUsernameFunc: func(username string) (*User, error) {
				return &User{ID: 5, AuthSubject: &other}, nil
			},
		}
		_, err := NewService(mockRepo, nil, nil).Resolve(context.Background(), &auth.Principal{UserID: "sub-5", Username: "mama"})
		if !errors.Is(err, ErrUnlinkedIdentity) {
			t.Errorf("Expected ErrUnlinkedIdentity, got %v", err)
		}
	})

	t.Run("unknown identity", func(t *testing.T) {
		mockRepo := &mockRepository{
			getBySubjectFunc:  func(sub string) (*User, error) { return nil, ErrUserNotFound },
			getByUsernameFunc: func(username string) (*User, error) { return nil, ErrUserNotFound },
		}
		_, err := NewService(mockRepo, nil, nil).Resolve(context.Background(), &auth.Principal{UserID: "x", Username: "ghost"})
		if !errors.Is(err, ErrUnlinkedIdentity) {
			t.Errorf("Expected ErrUnlinkedIdentity, got %v", err)
		}
	})
}

// Mock implementations

type mockRepository struct {
	createFunc        func(u *User) error
	getByIDFunc       func(id int64) (*User, error)
	getByCustomIDFunc func(customID string) (*User, error)
	getBySubjectFunc  func(subject string) (*User, error)
	getByUsernameFunc func(username string) (*User, error)
	linkSubjectFunc   func(id int64, subject string) error
	listFunc          func(f ListFilter) ([]User, int, error)
	listActiveIDsFunc func(roles ...Role) ([]int64, error)
	updateFunc        func(id int64, req UpdateUserRequest) (*User, error)
	deactivateFunc    func(id int64) error
}

func (m *mockRepository) Create(ctx context.Context, u *User) error {
	if m.createFunc != nil {
		return m.createFunc(u)
	}
	return errors.New("not implemented")
}

func (m *mockRepository) CreateWith(ctx context.Context, q db.Querier, u *User) error {
	return m.Create(ctx, u)
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) GetByCustomID(ctx context.Context, customID string) (*User, error) {
	if m.getByCustomIDFunc != nil {
		return m.getByCustomIDFunc(customID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) GetBySubject(ctx context.Context, subject string) (*User, error) {
	if m.getBySubjectFunc != nil {
		return m.getBySubjectFunc(subject)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	if m.getByUsernameFunc != nil {
		return m.getByUsernameFunc(username)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) LinkSubject(ctx context.Context, id int64, subject string) error {
	if m.linkSubjectFunc != nil {
		return m.linkSubjectFunc(id, subject)
	}
	return errors.New("not implemented")
}

func (m *mockRepository) List(ctx context.Context, f ListFilter) ([]User, int, error) {
	if m.listFunc != nil {
		return m.listFunc(f)
	}
	return nil, 0, errors.New("not implemented")
}

func (m *mockRepository) ListActiveIDs(ctx context.Context, roles ...Role) ([]int64, error) {
	if m.listActiveIDsFunc != nil {
		return m.listActiveIDsFunc(roles...)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) Update(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	if m.updateFunc != nil {
		return m.updateFunc(id, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) UpdateWith(ctx context.Context, q db.Querier, id int64, req UpdateUserRequest) (*User, error) {
	return m.Update(ctx, id, req)
}

func (m *mockRepository) Deactivate(ctx context.Context, id int64) error {
	if m.deactivateFunc != nil {
		return m.deactivateFunc(id)
	}
	return errors.New("not implemented")
}

type activityEntry struct {
	actorID int64
	action  string
	target  string
}

type recordingActivity struct {
	entries []activityEntry
}

func (r *recordingActivity) Record(ctx context.Context, actorID int64, action, target, description string) {
	r.entries = append(r.entries, activityEntry{actorID: actorID, action: action, target: target})
}
