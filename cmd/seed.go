package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"civiclink/models"
	"civiclink/services"
)

const seedPassword = "password123"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample Pune users and issues into the configured storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStorage(ctx, cfg)
		if err != nil {
			return fmt.Errorf("open %s storage: %w", cfg.StorageDriver, err)
		}
		defer store.Close()

		issues := services.NewIssueService(store.Issues, services.Options{Logger: logger})
		defer issues.Close()
		users := services.NewUserService(store.Users, logger)

		n, err := seed(ctx, issues, users, logger)
		if err != nil {
			return err
		}
		logger.Info("seed complete", "issues", n, "storage", cfg.StorageDriver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

type seedUser struct {
	name, email string
	role        models.Role
}

type seedIssue struct {
	reporter int
	input    services.CreateIssueInput
	upvoters []int
	status   models.IssueStatus
}

var seedUsers = []seedUser{
	{"Aarav Sharma", "aarav.sharma@example.com", models.RoleCitizen},
	{"Priya Patel", "priya.patel@example.com", models.RoleCitizen},
	{"Rohan Mehta", "rohan.mehta@example.com", models.RoleCitizen},
	{"Saanvi Singh", "saanvi.singh@example.com", models.RoleAdmin},
}

func coord(v float64) *float64 { return &v }

var seedIssues = []seedIssue{
	{
		reporter: 0,
		input: services.CreateIssueInput{
			Title:       "Huge Pothole on FC Road",
			Description: "A massive pothole near Vaishali Restaurant is causing severe traffic backlog and is dangerous for two-wheelers. It has been there for over a week.",
			Category:    models.Potholes,
			Location:    "Fergusson College Rd, Deccan Gymkhana, Pune",
			Latitude:    coord(18.518),
			Longitude:   coord(73.844),
		},
		upvoters: []int{1, 2, 3},
	},
	{
		reporter: 1,
		input: services.CreateIssueInput{
			Title:       "No Streetlights on Kesnand Road, Wagholi",
			Description: "The entire stretch of Kesnand Road from the main highway turning is pitch dark. It feels extremely unsafe to travel here after 7 PM.",
			Category:    models.BrokenStreetlights,
			Location:    "Kesnand Road, Wagholi, Pune",
			Latitude:    coord(18.585),
			Longitude:   coord(73.970),
		},
		upvoters: []int{0, 2},
	},
	{
		reporter: 2,
		input: services.CreateIssueInput{
			Title:       "Garbage Dumped near Pune Station",
			Description: "There is a huge pile of garbage overflowing from the bins right outside the main entrance of Pune Railway Station.",
			Category:    models.GarbageDump,
			Location:    "Pune Railway Station, Agarkar Nagar, Pune",
			Latitude:    coord(18.528),
			Longitude:   coord(73.873),
		},
		upvoters: []int{0},
		status:   models.InProgress,
	},
	{
		reporter: 0,
		input: services.CreateIssueInput{
			Title:       "Open Manhole on Karve Road",
			Description: "An open manhole without any warning signs is present on the footpath of the busy Karve Road. It is extremely dangerous for pedestrians at night.",
			Category:    models.OpenManhole,
			Location:    "Karve Road, Kothrud, Pune",
			Latitude:    coord(18.505),
			Longitude:   coord(73.832),
		},
		upvoters: []int{1, 2, 3},
	},
	{
		reporter: 3,
		input: services.CreateIssueInput{
			Title:       "Broken Signage at Wagholi-Lohegaon Rd Crossing",
			Description: "The main direction sign at the Wagholi-Lohegaon road junction is broken and turned the wrong way, causing confusion for new drivers.",
			Category:    models.IllegalBanners,
			Location:    "Wagholi-Lohegaon Road, Wagholi, Pune",
			Latitude:    coord(18.583),
			Longitude:   coord(73.951),
		},
		upvoters: []int{1},
		status:   models.Resolved,
	},
	{
		reporter: 1,
		input: services.CreateIssueInput{
			Title:       "Water Logging near Wagheshwar Temple",
			Description: "After just a little rain, the area around Wagheshwar Temple gets completely water-logged. The drainage system is clearly choked.",
			Category:    models.StagnantWater,
			Location:    "Wagheshwar Temple, Wagholi, Pune",
			Latitude:    coord(18.577),
			Longitude:   coord(73.963),
		},
		upvoters: []int{0, 2, 3},
	},
}

// seed registers the sample users (reusing existing accounts) and reports
// the sample issues through the service layer. It returns the number of
// issues created.
func seed(ctx context.Context, issues *services.IssueService, users *services.UserService, logger *slog.Logger) (int, error) {
	viewers := make([]*models.Viewer, len(seedUsers))
	var admin *models.Viewer
	for i, su := range seedUsers {
		user, err := users.Register(ctx, services.RegisterInput{Name: su.name, Email: su.email, Password: seedPassword, Role: su.role})
		if errors.Is(err, models.ErrEmailTaken) {
			user, err = users.Authenticate(ctx, su.email, seedPassword)
		}
		if err != nil {
			return 0, fmt.Errorf("seed user %s: %w", su.email, err)
		}
		viewers[i] = user.Viewer()
		if user.Role == models.RoleAdmin {
			admin = viewers[i]
		}
	}

	for _, si := range seedIssues {
		issue, err := issues.CreateIssue(ctx, si.input, viewers[si.reporter])
		if err != nil {
			return 0, fmt.Errorf("seed issue %q: %w", si.input.Title, err)
		}
		for _, v := range si.upvoters {
			if _, err := issues.CastVote(ctx, issue.ID, viewers[v], models.Up); err != nil {
				return 0, fmt.Errorf("seed vote on %s: %w", issue.ID, err)
			}
		}
		if si.status != "" && admin != nil {
			if _, err := issues.ChangeStatus(ctx, issue.ID, si.status, admin); err != nil {
				return 0, fmt.Errorf("seed status on %s: %w", issue.ID, err)
			}
		}
		logger.Debug("seeded issue", "issue_id", issue.ID, "title", issue.Title)
	}
	return len(seedIssues), nil
}
