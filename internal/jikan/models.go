package jikan

// Upstream response envelope. Single-resource endpoints wrap the payload in
// "data"; list endpoints add "pagination".

// Anime is the upstream anime resource, trimmed to the fields the frontend
// consumes.
type Anime struct {
	MalID         int64    `json:"mal_id"`
	URL           string   `json:"url"`
	Title         string   `json:"title"`
	TitleEnglish  string   `json:"title_english"`
	TitleJapanese string   `json:"title_japanese"`
	Type          string   `json:"type"`
	Source        string   `json:"source"`
	Episodes      int      `json:"episodes"`
	Status        string   `json:"status"`
	Airing        bool     `json:"airing"`
	Duration      string   `json:"duration"`
	Rating        string   `json:"rating"`
	Score         float64  `json:"score"`
	ScoredBy      int      `json:"scored_by"`
	Rank          int      `json:"rank"`
	Popularity    int      `json:"popularity"`
	Synopsis      string   `json:"synopsis"`
	Background    string   `json:"background"`
	Season        string   `json:"season"`
	Year          int      `json:"year"`
	Images        Images   `json:"images"`
	Genres        []Entity `json:"genres"`
	Studios       []Entity `json:"studios"`
}

// Character is the upstream character resource
type Character struct {
	MalID     int64    `json:"mal_id"`
	URL       string   `json:"url"`
	Name      string   `json:"name"`
	NameKanji string   `json:"name_kanji"`
	Nicknames []string `json:"nicknames"`
	Favorites int      `json:"favorites"`
	About     string   `json:"about"`
	Images    Images   `json:"images"`
}

// AnimeCharacter is one entry of an anime's character listing
type AnimeCharacter struct {
	Character Character `json:"character"`
	Role      string    `json:"role"`
	Favorites int       `json:"favorites"`
}

// Entity is a named reference (genre, studio, producer)
type Entity struct {
	MalID int64  `json:"mal_id"`
	Type  string `json:"type"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

// Images holds the jpg/webp variants
type Images struct {
	JPG  ImageSet `json:"jpg"`
	WebP ImageSet `json:"webp"`
}

// ImageSet holds the sizes of one image format
type ImageSet struct {
	ImageURL      string `json:"image_url"`
	SmallImageURL string `json:"small_image_url"`
	LargeImageURL string `json:"large_image_url"`
}

// Pagination mirrors the upstream pagination block
type Pagination struct {
	LastVisiblePage int             `json:"last_visible_page"`
	HasNextPage     bool            `json:"has_next_page"`
	CurrentPage     int             `json:"current_page"`
	Items           PaginationItems `json:"items"`
}

// PaginationItems counts the current page against the full result set
type PaginationItems struct {
	Count   int `json:"count"`
	Total   int `json:"total"`
	PerPage int `json:"per_page"`
}

// SearchResult is a page of anime search results
type SearchResult struct {
	Data       []Anime    `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// SearchParams narrows an anime search. Zero values are omitted from the
// query string.
type SearchParams struct {
	Query   string
	Genres  string // comma-separated upstream genre ids
	Season  string // winter, spring, summer, fall
	Year    int
	Status  string // airing, complete, upcoming
	Type    string // tv, movie, ova, special, ona, music
	OrderBy string // score, popularity, rank, title, start_date
	Sort    string // asc, desc
	Page    int
	Limit   int
}

type animeEnvelope struct {
	Data Anime `json:"data"`
}

type characterEnvelope struct {
	Data Character `json:"data"`
}

type animeCharactersEnvelope struct {
	Data []AnimeCharacter `json:"data"`
}
