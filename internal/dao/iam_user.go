package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/a1s/tabula/internal/aws"
	"github.com/a1s/tabula/internal/render"
	"github.com/a1s/tabula/internal/table"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
)

// IAMUser is an IAM user row.
type IAMUser struct {
	Name         string
	ID           string
	ARN          string
	Path         string
	CreatedAt    time.Time
	PasswordUsed time.Time
}

var iamUserFields = newFields(
	[]string{"name", "id", "arn", "path", "created", "lastLogin"},
	field[IAMUser]{
		title:   "NAME",
		display: func(u IAMUser) table.Cell { return text(u.Name) },
		key:     func(u IAMUser) table.Value { return table.String(u.Name) },
	},
	field[IAMUser]{
		title:   "USER-ID",
		display: func(u IAMUser) table.Cell { return text(u.ID) },
		key:     func(u IAMUser) table.Value { return table.String(u.ID) },
	},
	field[IAMUser]{
		title:   "ARN",
		display: func(u IAMUser) table.Cell { return text(u.ARN) },
	},
	field[IAMUser]{
		title:   "PATH",
		display: func(u IAMUser) table.Cell { return text(u.Path) },
		key:     func(u IAMUser) table.Value { return table.String(u.Path) },
	},
	field[IAMUser]{
		title:   "CREATED",
		display: func(u IAMUser) table.Cell { return text(render.FormatTime(u.CreatedAt)) },
		key:     func(u IAMUser) table.Value { return table.Time(u.CreatedAt) },
	},
	field[IAMUser]{
		title:   "LAST-LOGIN",
		display: func(u IAMUser) table.Cell { return table.NumberCell(render.ToAge(u.PasswordUsed)) },
		key:     func(u IAMUser) table.Value { return timeOrNull(u.PasswordUsed) },
	},
)

// IAMUserColumns returns the default IAM user columns.
func IAMUserColumns() table.Columns {
	return iamUserFields.columns()
}

// Display returns the display form of a field.
func (u IAMUser) Display(field string) (table.Cell, error) {
	return iamUserFields.display(u, field)
}

// SortKey returns the sort key of a field.
func (u IAMUser) SortKey(field string) (table.Value, error) {
	return iamUserFields.sortKey(u, field)
}

// MatchesSearch returns true if any column contains the needle.
func (u IAMUser) MatchesSearch(needle string) bool {
	return iamUserFields.matches(u, needle)
}

// IAMUsers lists the account's IAM users.
type IAMUsers struct {
	api iam.ListUsersAPIClient
}

// NewIAMUsers returns a new user source.
func NewIAMUsers(api iam.ListUsersAPIClient) *IAMUsers {
	return &IAMUsers{api: api}
}

// List returns all IAM users.
func (s *IAMUsers) List(ctx context.Context) ([]IAMUser, error) {
	if s.api == nil {
		return nil, fmt.Errorf("failed to get IAM client")
	}

	paginator := iam.NewListUsersPaginator(s.api, &iam.ListUsersInput{})

	var users []IAMUser
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, aws.WrapAWSError(err, "list users")
		}
		for _, u := range output.Users {
			users = append(users, userToRow(u))
		}
	}

	return users, nil
}

func userToRow(user types.User) IAMUser {
	row := IAMUser{
		Name: aws.SafeString(user.UserName),
		ID:   aws.SafeString(user.UserId),
		ARN:  aws.SafeString(user.Arn),
		Path: aws.SafeString(user.Path),
	}
	if user.CreateDate != nil {
		row.CreatedAt = *user.CreateDate
	}
	if user.PasswordLastUsed != nil {
		row.PasswordUsed = *user.PasswordLastUsed
	}

	return row
}

func timeOrNull(t time.Time) table.Value {
	if t.IsZero() {
		return table.Null()
	}
	return table.Time(t)
}
