package identity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/identity"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/domain/trade"
	"github.com/shopmall/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// UserService handles account management operations
type UserService struct {
	userRepo  identity.UserRepository
	brandRepo catalog.BrandRepository
	txScope   TransactionScope
	blacklist auth.TokenBlacklist
	// sessionTTL bounds how long a revocation must be remembered: no token
	// issued before it can outlive the longest token lifetime.
	sessionTTL time.Duration
	logger     *zap.Logger
}

// UserServiceDeps holds the collaborators of UserService
type UserServiceDeps struct {
	UserRepo   identity.UserRepository
	BrandRepo  catalog.BrandRepository
	TxScope    TransactionScope
	Blacklist  auth.TokenBlacklist
	SessionTTL time.Duration
	Logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(deps UserServiceDeps) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo:   deps.UserRepo,
		brandRepo:  deps.BrandRepo,
		txScope:    deps.TxScope,
		blacklist:  deps.Blacklist,
		sessionTTL: deps.SessionTTL,
		logger:     logger,
	}
}

// CreateUser signs up a new customer with an empty cart
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	user, err := identity.NewUser(req.Name, req.UID, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	}
	exists, err = s.userRepo.ExistsByUID(ctx, user.UID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "UID is already taken")
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.UserRepo().Create(ctx, user); err != nil {
			return err
		}
		return repos.CartRepo().Save(ctx, trade.NewCart(user.ID))
	})
	if err != nil {
		s.logger.Error("failed to create user", zap.String("uid", user.UID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("uid", user.UID),
	)
	response := ToUserResponse(user)
	return &response, nil
}

// GetProfile returns the account of the user
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// UpdateSelf applies a partial update to the caller's account
func (s *UserService) UpdateSelf(ctx context.Context, userID uuid.UUID, req UpdateSelfRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := user.SetName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			exists, err := s.userRepo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
			}
			if err := user.SetEmail(email); err != nil {
				return nil, err
			}
		}
	}
	if req.Password != nil {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user updated",
		zap.String("user_id", user.ID.String()),
		zap.Bool("password_changed", req.Password != nil),
	)
	response := ToUserResponse(user)
	return &response, nil
}

// DeleteSelf removes the caller's account with its cart and likes, then
// revokes every token issued to it.
func (s *UserService) DeleteSelf(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return err
	}

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.LikeRepo().DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := repos.CartRepo().DeleteByUser(ctx, userID); err != nil {
			return err
		}
		return repos.UserRepo().Delete(ctx, userID)
	})
	if err != nil {
		s.logger.Error("failed to delete user", zap.String("user_id", userID.String()), zap.Error(err))
		return err
	}

	if s.blacklist != nil {
		if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), s.sessionTTL); err != nil {
			s.logger.Warn("failed to revoke tokens of deleted user",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("user deleted", zap.String("user_id", userID.String()))
	return nil
}

// BelongUserToBrand attaches a user to a brand. A super admin appoints a
// brand chief admin; a brand chief admin appoints brand admins of their own brand.
func (s *UserService) BelongUserToBrand(ctx context.Context, actor Actor, userID, brandID uuid.UUID) (*UserResponse, error) {
	role, ok := actor.Role.AssignableBrandRole()
	if !ok {
		return nil, shared.NewDomainError("FORBIDDEN", "Only brand chief admins and super admins can assign brand members")
	}
	if actor.Role == identity.RoleBrandChiefAdmin && (actor.BrandID == nil || *actor.BrandID != brandID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Brand chief admins can only assign members of their own brand")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.brandRepo.FindByID(ctx, brandID); err != nil {
		return nil, err
	}

	if err := user.BelongToBrand(brandID, role); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user attached to brand",
		zap.String("user_id", user.ID.String()),
		zap.String("brand_id", brandID.String()),
		zap.String("role", role.String()),
		zap.String("actor_id", actor.UserID.String()),
	)
	response := ToUserResponse(user)
	return &response, nil
}
