package dashboard

import (
	"context"
	"time"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/examination"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/notification"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/users"
)

const (
	upcomingLimit      = 10
	recentLimit        = 6
	notificationLimit  = 5
	upcomingWeekLength = 7
	dateLayout         = "2006-01-02"
)

type LocationSource interface {
	Location(ctx context.Context) *time.Location
}

type ExaminationReader interface {
	Latest(ctx context.Context, motherID int64) (*examination.Examination, error)
}

// PregnancyTracker derives the pregnancy week from the health record.
type PregnancyTracker interface {
	Summary(ctx context.Context, motherID int64, today time.Time) (*int, error)
}

type NotificationReader interface {
	Latest(ctx context.Context, userID int64, n int) ([]notification.Notification, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
}

type AccountReader interface {
	GetByID(ctx context.Context, id int64) (*users.User, error)
}

type Deps struct {
	Repo          RepositoryInterface
	Examinations  ExaminationReader
	Pregnancy     PregnancyTracker
	Notifications NotificationReader
	Accounts      AccountReader
	Locations     LocationSource
}

type Service struct {
	repo          RepositoryInterface
	examinations  ExaminationReader
	pregnancy     PregnancyTracker
	notifications NotificationReader
	accounts      AccountReader
	locations     LocationSource
	now           func() time.Time
}

func NewService(deps Deps) *Service {
	return &Service{
		repo:          deps.Repo,
		examinations:  deps.Examinations,
		pregnancy:     deps.Pregnancy,
		notifications: deps.Notifications,
		accounts:      deps.Accounts,
		locations:     deps.Locations,
		now:           time.Now,
	}
}

// today is midnight of the current date in the clinic time zone.
func (s *Service) today(ctx context.Context) time.Time {
	now := s.now().In(s.locations.Location(ctx))
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func (s *Service) Provider(ctx context.Context, providerID int64) (*ProviderDashboard, error) {
	today := s.today(ctx)
	day := today.Format(dateLayout)

	metrics, err := s.repo.ProviderMetrics(ctx, day, today.AddDate(0, 0, upcomingWeekLength).Format(dateLayout))
	if err != nil {
		return nil, err
	}
	upcoming, err := s.repo.UpcomingVisits(ctx, day, upcomingLimit)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.RecentVisits(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	mothers, err := s.repo.RecentMothers(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	unread, err := s.notifications.UnreadCount(ctx, providerID)
	if err != nil {
		return nil, err
	}

	return &ProviderDashboard{
		Metrics:             metrics,
		Upcoming:            upcoming,
		RecentVisits:        recent,
		RecentMothers:       mothers,
		UnreadNotifications: unread,
	}, nil
}

func (s *Service) Mother(ctx context.Context, motherID int64) (*MotherDashboard, error) {
	today := s.today(ctx)

	account, err := s.accounts.GetByID(ctx, motherID)
	if err != nil {
		return nil, err
	}
	next, err := s.repo.NextVisit(ctx, motherID, today.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	latestNotifications, err := s.notifications.Latest(ctx, motherID, notificationLimit)
	if err != nil {
		return nil, err
	}

	summary := HealthSummary{
		Name:       account.DisplayName(),
		Phone:      account.PhoneNumber,
		Address:    account.Address,
		RiskStatus: string(examination.RiskUnknown),
	}

	latest, err := s.examinations.Latest(ctx, motherID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		visit := latest.VisitDate
		summary.LastVisit = &visit
		summary.PregnancyWeek = latest.GestationalAgeWeeks
		summary.RiskStatus = string(latest.RiskStatus)
	}
	if summary.PregnancyWeek == nil {
		week, err := s.pregnancy.Summary(ctx, motherID, today)
		if err != nil {
			return nil, err
		}
		summary.PregnancyWeek = week
	}

	return &MotherDashboard{
		NextAppointment: next,
		Notifications:   latestNotifications,
		HealthSummary:   summary,
	}, nil
}

func (s *Service) Admin(ctx context.Context) (*AdminDashboard, error) {
	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, err
	}
	return &totals, nil
}
