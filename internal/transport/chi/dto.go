package chi

import (
	"time"

	"github.com/retailgrid/agentsearch/internal/domain/answer"
	domusage "github.com/retailgrid/agentsearch/internal/domain/usage"
)

// Error response codes.
const (
	codeBadRequest           = "bad_request"
	codeValidationFailed     = "validation_failed"
	codeRetrieverUnavailable = "retriever_unavailable"
	codeNotImplemented       = "not_implemented"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Success       bool         `json:"success"`
	Status        string       `json:"status"`
	SearchType    string       `json:"searchType"`
	Query         string       `json:"query"`
	Result        *resultDTO   `json:"result,omitempty"`
	Metadata      *metadataDTO `json:"metadata,omitempty"`
	Error         string       `json:"error,omitempty"`
	RetryAfterSec int          `json:"retryAfterSec,omitempty"`
	RawResponse   string       `json:"rawResponse,omitempty"`
}

type resultDTO struct {
	Summary         string              `json:"summary"`
	Products        []productDTO        `json:"products"`
	Insights        []insightDTO        `json:"insights,omitempty"`
	Recommendations []recommendationDTO `json:"recommendations,omitempty"`
	Explanation     string              `json:"explanation"`
}

type productDTO struct {
	RefID          *string  `json:"refId,omitempty"`
	Name           *string  `json:"name,omitempty"`
	ProductNumber  *string  `json:"productNumber,omitempty"`
	Price          *float64 `json:"price,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Color          *string  `json:"color,omitempty"`
	Size           *string  `json:"size,omitempty"`
	Material       *string  `json:"material,omitempty"`
	ImageURLs      []string `json:"imageUrls,omitempty"`
	DisplayLines   []string `json:"displayLines,omitempty"`
	RelevanceScore float64  `json:"relevanceScore"`
}

type insightDTO struct {
	Kind string `json:"kind"`
	Icon string `json:"icon"`
	Text string `json:"text"`
}

type recommendationDTO struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type metadataDTO struct {
	ProcessingTimeMs int64         `json:"processingTimeMs"`
	TotalResults     int           `json:"totalResults"`
	SubQueries       []subQueryDTO `json:"subQueries,omitempty"`
	TokenUsage       tokenUsageDTO `json:"tokenUsage"`
	Sources          []sourceDTO   `json:"sources,omitempty"`
	Stats            statsDTO      `json:"stats"`
}

type subQueryDTO struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	Purpose     string    `json:"purpose"`
	QueryTime   time.Time `json:"queryTime"`
	ResultCount int       `json:"resultCount"`
	ElapsedMs   int       `json:"elapsedMs"`
}

type tokenUsageDTO struct {
	InputTokens   int     `json:"inputTokens"`
	OutputTokens  int     `json:"outputTokens"`
	TotalTokens   int     `json:"totalTokens"`
	EstimatedCost float64 `json:"estimatedCost"`
}

type sourceDTO struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Content        *string `json:"content,omitempty"`
	RelevanceScore float64 `json:"relevanceScore"`
}

type statsDTO struct {
	PlanningOperations int `json:"planningOperations"`
	ParallelQueries    int `json:"parallelQueries"`
	DocumentsSearched  int `json:"documentsSearched"`
}

type usageResponse struct {
	Period        string     `json:"period"`
	PeriodStartAt *time.Time `json:"periodStartAt,omitempty"`
	PeriodEndAt   *time.Time `json:"periodEndAt,omitempty"`
	SearchType    string     `json:"searchType"`
	Usage         usageDTO   `json:"usage"`
	EstimatedCost float64    `json:"estimatedCost"`
}

type usageDTO struct {
	Requests     int64 `json:"requests"`
	InputTokens  int64 `json:"inputTokens"`
	OutputTokens int64 `json:"outputTokens"`
	TotalTokens  int64 `json:"totalTokens"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func responseToDTO(resp *answer.Response) searchResponse {
	dto := searchResponse{
		Success:       resp.Success(),
		Status:        string(resp.Status()),
		SearchType:    string(resp.SearchType()),
		Query:         resp.Query(),
		Error:         resp.Error(),
		RetryAfterSec: resp.RetryAfterSec(),
		RawResponse:   resp.RawPayload(),
	}

	if result, ok := resp.Result(); ok {
		r := resultToDTO(&result)
		dto.Result = &r
	}
	if meta, ok := resp.Metadata(); ok {
		m := metadataToDTO(&meta)
		dto.Metadata = &m
	}
	return dto
}

func resultToDTO(r *answer.Result) resultDTO {
	products := make([]productDTO, len(r.Products()))
	for i := range r.Products() {
		p := &r.Products()[i]
		dto := productDTO{
			ImageURLs:      p.ImageURLs(),
			DisplayLines:   p.DisplayLines(),
			RelevanceScore: p.RelevanceScore(),
		}
		dto.RefID = optStr(p.RefID())
		dto.Name = optStr(p.Name())
		dto.ProductNumber = optStr(p.ProductNumber())
		dto.Description = optStr(p.Description())
		dto.Color = optStr(p.Color())
		dto.Size = optStr(p.Size())
		dto.Material = optStr(p.Material())
		if price, ok := p.Price(); ok {
			dto.Price = &price
		}
		products[i] = dto
	}

	insights := make([]insightDTO, len(r.Insights()))
	for i := range r.Insights() {
		in := &r.Insights()[i]
		insights[i] = insightDTO{Kind: string(in.Kind()), Icon: in.Icon(), Text: in.Text()}
	}

	recommendations := make([]recommendationDTO, len(r.Recommendations()))
	for i := range r.Recommendations() {
		rec := &r.Recommendations()[i]
		recommendations[i] = recommendationDTO{Title: rec.Title(), Text: rec.Text()}
	}

	return resultDTO{
		Summary:         r.Summary(),
		Products:        products,
		Insights:        insights,
		Recommendations: recommendations,
		Explanation:     r.Explanation(),
	}
}

func metadataToDTO(m *answer.Metadata) metadataDTO {
	subQueries := make([]subQueryDTO, len(m.SubQueries()))
	for i := range m.SubQueries() {
		q := &m.SubQueries()[i]
		subQueries[i] = subQueryDTO{
			ID:          q.ID(),
			Query:       q.Query(),
			Purpose:     q.Purpose(),
			QueryTime:   q.QueryTime(),
			ResultCount: q.ResultCount(),
			ElapsedMs:   q.ElapsedMs(),
		}
	}

	sources := make([]sourceDTO, len(m.Sources()))
	for i := range m.Sources() {
		src := &m.Sources()[i]
		dto := sourceDTO{
			ID:             src.ID(),
			Title:          src.Title(),
			RelevanceScore: src.RelevanceScore(),
		}
		if content, ok := src.Content(); ok {
			dto.Content = &content
		}
		sources[i] = dto
	}

	usage := m.TokenUsage()
	stats := m.Stats()
	return metadataDTO{
		ProcessingTimeMs: m.ProcessingTimeMs(),
		TotalResults:     m.TotalResults(),
		SubQueries:       subQueries,
		TokenUsage: tokenUsageDTO{
			InputTokens:   usage.InputTokens(),
			OutputTokens:  usage.OutputTokens(),
			TotalTokens:   usage.TotalTokens(),
			EstimatedCost: usage.EstimatedCost(),
		},
		Sources: sources,
		Stats: statsDTO{
			PlanningOperations: stats.PlanningOperations(),
			ParallelQueries:    stats.ParallelQueries(),
			DocumentsSearched:  stats.DocumentsSearched(),
		},
	}
}

func reportToDTO(r *domusage.Report) usageResponse {
	resp := usageResponse{
		Period:     string(r.Period()),
		SearchType: string(r.SearchType()),
		Usage: usageDTO{
			Requests:     r.Counters().Requests(),
			InputTokens:  r.Counters().InputTokens(),
			OutputTokens: r.Counters().OutputTokens(),
			TotalTokens:  r.Counters().TotalTokens(),
		},
		EstimatedCost: r.EstimatedCost(),
	}
	if r.PeriodStart() > 0 {
		start := time.UnixMilli(r.PeriodStart()).UTC()
		end := time.UnixMilli(r.PeriodEnd()).UTC()
		resp.PeriodStartAt = &start
		resp.PeriodEndAt = &end
	}
	return resp
}

func optStr(v string, ok bool) *string {
	if !ok {
		return nil
	}
	return &v
}
