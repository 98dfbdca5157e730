package model

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type EditUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type CreateJokeRequest struct {
	Joke string `json:"joke"`
	ID   string `json:"id,omitempty"`
}

type UpdateJokeRequest struct {
	Joke string `json:"joke"`
}
