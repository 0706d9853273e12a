package models

import (
	"encoding/json"
	"strings"
)

// User represents an account profile on the platform.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Age       int    `json:"age"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// DisplayName returns "First Last", trimmed.
func (u User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UnmarshalJSON folds the backend's id variants (_id vs id) and legacy
// single-field names (name) into the canonical schema.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        string `json:"id"`
		MongoID   string `json:"_id"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		Age       int    `json:"age"`
		Avatar    string `json:"avatar"`
		CreatedAt string `json:"createdAt"`
		UpdatedAt string `json:"updatedAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	u.ID = firstNonEmpty(raw.ID, raw.MongoID)
	u.FirstName = raw.FirstName
	u.LastName = raw.LastName
	if u.FirstName == "" && raw.Name != "" {
		parts := strings.SplitN(raw.Name, " ", 2)
		u.FirstName = parts[0]
		if len(parts) > 1 {
			u.LastName = parts[1]
		}
	}
	u.Email = raw.Email
	u.Age = raw.Age
	u.Avatar = raw.Avatar
	u.CreatedAt = raw.CreatedAt
	u.UpdatedAt = raw.UpdatedAt
	return nil
}

// Subtitles holds optional subtitle track URLs per language.
type Subtitles struct {
	Spanish string `json:"spanish,omitempty"`
	English string `json:"english,omitempty"`
}

// Movie represents a catalog entry.
type Movie struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Genres        []string  `json:"genre"`
	Duration      int       `json:"duration"` // minutes
	Poster        string    `json:"poster,omitempty"`
	VideoURL      string    `json:"videoUrl,omitempty"`
	Subtitles     Subtitles `json:"subtitles,omitempty"`
	AverageRating float64   `json:"averageRating"`
	TotalRatings  int       `json:"totalRatings"`
	CreatedAt     string    `json:"createdAt,omitempty"`
}

// UnmarshalJSON folds legacy field variants into the canonical schema:
// _id vs id, rating vs averageRating, image vs poster, url vs videoUrl.
func (m *Movie) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID            string    `json:"id"`
		MongoID       string    `json:"_id"`
		Title         string    `json:"title"`
		Description   string    `json:"description"`
		Genres        []string  `json:"genre"`
		Duration      int       `json:"duration"`
		Poster        string    `json:"poster"`
		Image         string    `json:"image"`
		VideoURL      string    `json:"videoUrl"`
		URL           string    `json:"url"`
		Subtitles     Subtitles `json:"subtitles"`
		AverageRating float64   `json:"averageRating"`
		Rating        float64   `json:"rating"`
		TotalRatings  int       `json:"totalRatings"`
		CreatedAt     string    `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	m.ID = firstNonEmpty(raw.ID, raw.MongoID)
	m.Title = raw.Title
	m.Description = raw.Description
	m.Genres = raw.Genres
	m.Duration = raw.Duration
	m.Poster = firstNonEmpty(raw.Poster, raw.Image)
	m.VideoURL = firstNonEmpty(raw.VideoURL, raw.URL)
	m.Subtitles = raw.Subtitles
	m.AverageRating = raw.AverageRating
	if m.AverageRating == 0 {
		m.AverageRating = raw.Rating
	}
	m.TotalRatings = raw.TotalRatings
	m.CreatedAt = raw.CreatedAt
	return nil
}

// AuthorRef is the comment author as the backend ships it: either an
// embedded user object, or a bare id string when the account is gone.
// The variant is resolved once at decode time and never re-inspected.
type AuthorRef struct {
	User    User
	Deleted bool
}

// UnmarshalJSON accepts either a JSON string (deleted account, only the id
// survives) or an embedded user object.
func (a *AuthorRef) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		a.Deleted = true
		a.User = User{}
		return nil
	}

	if strings.HasPrefix(trimmed, "\"") {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		a.Deleted = true
		a.User = User{ID: id}
		return nil
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return err
	}
	a.User = user
	a.Deleted = false
	return nil
}

// MarshalJSON re-emits the variant the way the backend expects it.
func (a AuthorRef) MarshalJSON() ([]byte, error) {
	if a.Deleted {
		return json.Marshal(a.User.ID)
	}
	return json.Marshal(a.User)
}

// DisplayName returns the author's name, or a placeholder for deleted accounts.
func (a AuthorRef) DisplayName() string {
	if a.Deleted {
		return "Usuario eliminado"
	}
	return a.User.DisplayName()
}

// Comment represents a viewer comment on a movie.
type Comment struct {
	ID        string    `json:"id"`
	MovieID   string    `json:"movieId"`
	Content   string    `json:"content"`
	Author    AuthorRef `json:"userId"`
	Edited    bool      `json:"edited"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt,omitempty"`
}

// UnmarshalJSON folds the id variants; the author variant is handled by [AuthorRef].
func (c *Comment) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        string    `json:"id"`
		MongoID   string    `json:"_id"`
		MovieID   string    `json:"movieId"`
		Content   string    `json:"content"`
		Author    AuthorRef `json:"userId"`
		Edited    bool      `json:"edited"`
		CreatedAt string    `json:"createdAt"`
		UpdatedAt string    `json:"updatedAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.ID = firstNonEmpty(raw.ID, raw.MongoID)
	c.MovieID = raw.MovieID
	c.Content = raw.Content
	c.Author = raw.Author
	c.Edited = raw.Edited
	c.CreatedAt = raw.CreatedAt
	c.UpdatedAt = raw.UpdatedAt
	return nil
}

// Favorite represents the server join-record linking the viewer to a movie.
// Its ID is the join-record id, distinct from the movie's own id.
type Favorite struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	MovieID   string `json:"movieId"`
	Movie     *Movie `json:"movie,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// UnmarshalJSON folds the id variants and accepts an embedded movie object
// in the movieId slot (another backend revision drift).
func (f *Favorite) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        string          `json:"id"`
		MongoID   string          `json:"_id"`
		UserID    string          `json:"userId"`
		MovieID   json.RawMessage `json:"movieId"`
		Movie     *Movie          `json:"movie"`
		CreatedAt string          `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	f.ID = firstNonEmpty(raw.ID, raw.MongoID)
	f.UserID = raw.UserID
	f.Movie = raw.Movie
	f.CreatedAt = raw.CreatedAt

	if len(raw.MovieID) > 0 {
		trimmed := strings.TrimSpace(string(raw.MovieID))
		if strings.HasPrefix(trimmed, "\"") {
			if err := json.Unmarshal(raw.MovieID, &f.MovieID); err != nil {
				return err
			}
		} else if strings.HasPrefix(trimmed, "{") {
			var movie Movie
			if err := json.Unmarshal(raw.MovieID, &movie); err != nil {
				return err
			}
			f.MovieID = movie.ID
			if f.Movie == nil {
				f.Movie = &movie
			}
		}
	}
	if f.MovieID == "" && f.Movie != nil {
		f.MovieID = f.Movie.ID
	}
	return nil
}

// Rating represents the viewer's stored rating for a movie.
type Rating struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	MovieID   string `json:"movieId"`
	Value     int    `json:"rating"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// UnmarshalJSON folds the id variants into the canonical schema.
func (r *Rating) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        string `json:"id"`
		MongoID   string `json:"_id"`
		UserID    string `json:"userId"`
		MovieID   string `json:"movieId"`
		Value     int    `json:"rating"`
		CreatedAt string `json:"createdAt"`
		UpdatedAt string `json:"updatedAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.ID = firstNonEmpty(raw.ID, raw.MongoID)
	r.UserID = raw.UserID
	r.MovieID = raw.MovieID
	r.Value = raw.Value
	r.CreatedAt = raw.CreatedAt
	r.UpdatedAt = raw.UpdatedAt
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
