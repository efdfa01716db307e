package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/IBA-HOK/user-attendance-record/internal/model"
	"github.com/IBA-HOK/user-attendance-record/internal/repository"
)

// ErrUnknownPermission is returned when a role payload references a
// permission code the system does not define.
var ErrUnknownPermission = errors.New("unknown permission code")

// AdminService handles staff account and role management.
type AdminService struct {
	adminRepo *repository.AdminRepository
	roleRepo  *repository.RoleRepository
	auth      *AuthService
}

// NewAdminService creates a new AdminService.
func NewAdminService(adminRepo *repository.AdminRepository, roleRepo *repository.RoleRepository, auth *AuthService) *AdminService {
	return &AdminService{adminRepo: adminRepo, roleRepo: roleRepo, auth: auth}
}

// Authenticate verifies credentials and returns the admin with their
// permission codes. Returns ErrInvalidCredentials for both an unknown
// username and a wrong password so the two are indistinguishable.
func (s *AdminService) Authenticate(ctx context.Context, username, password string) (*model.Admin, []string, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := s.auth.CheckPassword(admin.PasswordHash, password); err != nil {
		return nil, nil, err
	}

	permissions, err := s.roleRepo.GetPermissionsByRoleID(ctx, admin.RoleID)
	if err != nil {
		return nil, nil, fmt.Errorf("load permissions: %w", err)
	}
	return admin, permissions, nil
}

// GetByID retrieves an admin.
func (s *AdminService) GetByID(ctx context.Context, id int) (*model.Admin, error) {
	return s.adminRepo.GetByID(ctx, id)
}

// ListAdmins retrieves all staff accounts.
func (s *AdminService) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	return s.adminRepo.List(ctx)
}

// CreateAdmin registers a staff account.
func (s *AdminService) CreateAdmin(ctx context.Context, req *model.CreateAdminRequest) (*model.Admin, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &model.Admin{Username: req.Username, PasswordHash: hash, RoleID: req.RoleID}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	admin.PasswordHash = ""
	return admin, nil
}

// UpdateAdmin edits a staff account. An empty password leaves the stored
// hash unchanged. A password change revokes the admin's active session.
func (s *AdminService) UpdateAdmin(ctx context.Context, id int, req *model.UpdateAdminRequest) (int64, error) {
	hash := ""
	if req.Password != "" {
		var err error
		hash, err = s.auth.HashPassword(req.Password)
		if err != nil {
			return 0, fmt.Errorf("hash password: %w", err)
		}
	}

	admin := &model.Admin{ID: id, Username: req.Username, PasswordHash: hash, RoleID: req.RoleID}
	n, err := s.adminRepo.Update(ctx, admin)
	if err != nil {
		return 0, err
	}
	if n > 0 && req.Password != "" {
		if err := s.auth.RevokeSession(ctx, id); err != nil {
			return n, fmt.Errorf("revoke session: %w", err)
		}
	}
	return n, nil
}

// DeleteAdmin removes a staff account and revokes its session.
func (s *AdminService) DeleteAdmin(ctx context.Context, id int) (int64, error) {
	n, err := s.adminRepo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if err := s.auth.RevokeSession(ctx, id); err != nil {
			return n, fmt.Errorf("revoke session: %w", err)
		}
	}
	return n, nil
}

// GetRole retrieves a role with its permissions.
func (s *AdminService) GetRole(ctx context.Context, id int) (*model.RoleWithPermissions, error) {
	return s.roleRepo.GetRoleByID(ctx, id)
}

// ListRoles retrieves all roles with their permissions.
func (s *AdminService) ListRoles(ctx context.Context) ([]model.RoleWithPermissions, error) {
	return s.roleRepo.ListRolesWithPermissions(ctx)
}

// CreateRole creates a role and assigns its permission set.
func (s *AdminService) CreateRole(ctx context.Context, req *model.SaveRoleRequest) (*model.RoleWithPermissions, error) {
	if err := validatePermissions(req.Permissions); err != nil {
		return nil, err
	}

	id, err := s.roleRepo.CreateRole(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.roleRepo.ReplacePermissions(ctx, id, req.Permissions); err != nil {
		return nil, err
	}
	return s.roleRepo.GetRoleByID(ctx, id)
}

// UpdateRole renames a role and replaces its permission set.
func (s *AdminService) UpdateRole(ctx context.Context, id int, req *model.SaveRoleRequest) (*model.RoleWithPermissions, error) {
	if err := validatePermissions(req.Permissions); err != nil {
		return nil, err
	}

	if _, err := s.roleRepo.GetRoleByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.roleRepo.UpdateRole(ctx, id, req.Name); err != nil {
		return nil, err
	}
	if err := s.roleRepo.ReplacePermissions(ctx, id, req.Permissions); err != nil {
		return nil, err
	}
	return s.roleRepo.GetRoleByID(ctx, id)
}

// DeleteRole removes a role. Admins still assigned to it block the
// delete via the FK constraint.
func (s *AdminService) DeleteRole(ctx context.Context, id int) error {
	return s.roleRepo.DeleteRole(ctx, id)
}

// VerifyPermissionSeed compares the database permission table against
// the codes the application routes reference. Called at startup so a
// missed seed migration fails fast.
func (s *AdminService) VerifyPermissionSeed(ctx context.Context) error {
	codes, err := s.roleRepo.ListPermissionCodes(ctx)
	if err != nil {
		return fmt.Errorf("list permission codes: %w", err)
	}

	seeded := make(map[string]bool, len(codes))
	for _, c := range codes {
		seeded[c] = true
	}
	for _, p := range model.AllPermissions {
		if !seeded[string(p)] {
			return fmt.Errorf("permission %q missing from database, run migrations", p)
		}
	}
	return nil
}

func validatePermissions(codes []string) error {
	known := make(map[string]bool, len(model.AllPermissions))
	for _, p := range model.AllPermissions {
		known[string(p)] = true
	}
	for _, c := range codes {
		if !known[c] {
			return fmt.Errorf("%w: %q", ErrUnknownPermission, c)
		}
	}
	return nil
}
