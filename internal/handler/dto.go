package handler

type NewsItemResponse struct {
	Source  string `json:"source"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type SentimentResponse struct {
	Article string  `json:"article"`
	Score   float64 `json:"score"`
	Label   string  `json:"label"`
	Preview string  `json:"preview"`
}

type AnalysisResponse struct {
	ID         int64               `json:"id,omitempty"`
	Ticker     string              `json:"ticker"`
	Analysis   string              `json:"analysis"`
	Failed     bool                `json:"failed"`
	ModelUsed  string              `json:"model_used"`
	ItemCount  int                 `json:"item_count"`
	Items      []NewsItemResponse  `json:"items,omitempty"`
	Sentiments []SentimentResponse `json:"sentiments"`
	CreatedAt  string              `json:"created_at"`
}

type AnalysesResponse struct {
	Latest  *AnalysisResponse  `json:"latest"`
	History []AnalysisResponse `json:"history"`
	Total   int                `json:"total"`
	Limit   int                `json:"limit"`
	Offset  int                `json:"offset"`
}

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type ChatMessageResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	SessionID string               `json:"session_id"`
	Reply     *ChatMessageResponse `json:"reply"`
	Failed    bool                 `json:"failed"`
	Error     string               `json:"error,omitempty"`
}

type ChatHistoryResponse struct {
	SessionID string                `json:"session_id"`
	Messages  []ChatMessageResponse `json:"messages"`
}

type CandleResponse struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

type StockResponse struct {
	Ticker  string           `json:"ticker"`
	Start   string           `json:"start"`
	End     string           `json:"end"`
	Candles []CandleResponse `json:"candles"`
}
