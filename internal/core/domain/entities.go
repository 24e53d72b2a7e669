package domain

import (
	"strconv"
	"time"
)

// Entity is implemented by every cached entity kind.
type Entity interface {
	// EntityID identifies the entity within its owner.
	EntityID() string
	// CreatedTime returns the creation time used by SortByCreated namespaces.
	CreatedTime() time.Time
	// UpdatedTime returns the update time used by SortByUpdated namespaces.
	UpdatedTime() time.Time
}

// SortTime returns the canonical sort time of e for field.
func SortTime(e Entity, field SortField) time.Time {
	if field == SortByCreated {
		return e.CreatedTime()
	}
	return e.UpdatedTime()
}

// Role is an AI-debate role definition from a role pack.
type Role struct {
	ID          string    `json:"id"`
	Pack        string    `json:"pack,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Prompt      string    `json:"prompt,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r Role) EntityID() string       { return r.ID }
func (r Role) CreatedTime() time.Time { return r.CreatedAt }
func (r Role) UpdatedTime() time.Time { return r.UpdatedAt }

// Branch is one branch of a repository.
type Branch struct {
	Name      string    `json:"name"`
	CommitSHA string    `json:"commit_sha"`
	Protected bool      `json:"protected"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b Branch) EntityID() string       { return b.Name }
func (b Branch) CreatedTime() time.Time { return b.UpdatedAt }
func (b Branch) UpdatedTime() time.Time { return b.UpdatedAt }

// FileEntry is one entry of a repository tree listing on a branch.
type FileEntry struct {
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Size        int       `json:"size"`
	SHA         string    `json:"sha"`
	DownloadURL string    `json:"download_url,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (f FileEntry) EntityID() string       { return f.Path }
func (f FileEntry) CreatedTime() time.Time { return f.UpdatedAt }
func (f FileEntry) UpdatedTime() time.Time { return f.UpdatedAt }

// Comment is one issue comment.
type Comment struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	Author    string    `json:"author"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	HTMLURL   string    `json:"html_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c Comment) EntityID() string       { return strconv.FormatInt(c.ID, 10) }
func (c Comment) CreatedTime() time.Time { return c.CreatedAt }
func (c Comment) UpdatedTime() time.Time { return c.UpdatedAt }

// CommentMetadata summarizes the comment thread of one issue.
type CommentMetadata struct {
	IssueNumber   int       `json:"issue_number"`
	Title         string    `json:"title"`
	State         string    `json:"state"`
	CommentCount  int       `json:"comment_count"`
	LastCommentAt time.Time `json:"last_comment_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (m CommentMetadata) EntityID() string       { return strconv.Itoa(m.IssueNumber) }
func (m CommentMetadata) CreatedTime() time.Time { return m.UpdatedAt }
func (m CommentMetadata) UpdatedTime() time.Time { return m.UpdatedAt }

// ImageURLMapping rewrites an image URL found in repository content to a displayable one.
type ImageURLMapping struct {
	OriginalURL string    `json:"original_url"`
	ResolvedURL string    `json:"resolved_url"`
	CreatedAt   time.Time `json:"created_at"`
}

func (m ImageURLMapping) EntityID() string       { return m.OriginalURL }
func (m ImageURLMapping) CreatedTime() time.Time { return m.CreatedAt }
func (m ImageURLMapping) UpdatedTime() time.Time { return m.CreatedAt }

// UserProfile is a user's public profile.
type UserProfile struct {
	ID          int64     `json:"id"`
	Login       string    `json:"login"`
	Name        string    `json:"name,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Company     string    `json:"company,omitempty"`
	Location    string    `json:"location,omitempty"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	PublicRepos int       `json:"public_repos"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p UserProfile) EntityID() string       { return p.Login }
func (p UserProfile) CreatedTime() time.Time { return p.CreatedAt }
func (p UserProfile) UpdatedTime() time.Time { return p.UpdatedAt }

// Repository is a repository listed for a user.
type Repository struct {
	ID            int64     `json:"id"`
	FullName      string    `json:"full_name"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Private       bool      `json:"private"`
	Fork          bool      `json:"fork"`
	DefaultBranch string    `json:"default_branch"`
	Language      string    `json:"language,omitempty"`
	Stars         int       `json:"stars"`
	HTMLURL       string    `json:"html_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (r Repository) EntityID() string       { return r.FullName }
func (r Repository) CreatedTime() time.Time { return r.CreatedAt }
func (r Repository) UpdatedTime() time.Time { return r.UpdatedAt }

// Group is an organization a user belongs to.
type Group struct {
	ID          int64     `json:"id"`
	Login       string    `json:"login"`
	Description string    `json:"description,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (g Group) EntityID() string       { return g.Login }
func (g Group) CreatedTime() time.Time { return g.CreatedAt }
func (g Group) UpdatedTime() time.Time { return g.CreatedAt }

// Mission is a card on a user's task board.
type Mission struct {
	ID          string    `json:"id"`
	Board       string    `json:"board,omitempty"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (m Mission) EntityID() string       { return m.ID }
func (m Mission) CreatedTime() time.Time { return m.CreatedAt }
func (m Mission) UpdatedTime() time.Time { return m.UpdatedAt }

// Workspace is a user workspace.
type Workspace struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (w Workspace) EntityID() string       { return w.ID }
func (w Workspace) CreatedTime() time.Time { return w.CreatedAt }
func (w Workspace) UpdatedTime() time.Time { return w.UpdatedAt }

// ActivityEvent is one entry of a user's activity feed.
type ActivityEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Repo      string    `json:"repo"`
	Actor     string    `json:"actor"`
	Public    bool      `json:"public"`
	CreatedAt time.Time `json:"created_at"`
}

func (e ActivityEvent) EntityID() string       { return e.ID }
func (e ActivityEvent) CreatedTime() time.Time { return e.CreatedAt }
func (e ActivityEvent) UpdatedTime() time.Time { return e.CreatedAt }

// CodeActivity is a weekly commit summary of one repository.
type CodeActivity struct {
	Repo      string    `json:"repo"`
	WeekStart time.Time `json:"week_start"`
	Days      []int     `json:"days"`
	Total     int       `json:"total"`
}

func (a CodeActivity) EntityID() string {
	return a.Repo + "@" + a.WeekStart.UTC().Format(time.DateOnly)
}
func (a CodeActivity) CreatedTime() time.Time { return a.WeekStart }
func (a CodeActivity) UpdatedTime() time.Time { return a.WeekStart }
