package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/placify/internal/analytics"
	"github.com/jonathan/placify/internal/ats"
	"github.com/jonathan/placify/internal/cache"
	"github.com/jonathan/placify/internal/db"
	"github.com/jonathan/placify/internal/extract"
	"github.com/jonathan/placify/internal/llm"
	"github.com/jonathan/placify/internal/server/middleware"
	"github.com/jonathan/placify/internal/types"
)

// multipartOverhead leaves room for the text form fields next to the file.
const multipartOverhead = 1 << 20

// cachedAnalysis is what the score cache stores per resume/job pair.
type cachedAnalysis struct {
	Result   *ats.Result   `json:"result"`
	Feedback *llm.Feedback `json:"feedback,omitempty"`
}

// atsUpload holds the validated parts of an upload request.
type atsUpload struct {
	fileName    string
	resumeText  string
	jobText     string
	jobTitle    string
	companyName string
}

// handleATSUpload scores an uploaded resume against a job description.
// Anonymous callers get a result; authenticated callers also get it saved.
func (s *Server) handleATSUpload(w http.ResponseWriter, r *http.Request) {
	start := s.now()

	up, status, msg := s.readUpload(w, r)
	if status != 0 {
		errorResponse(w, status, msg)
		return
	}

	analysis, cached, err := s.analyze(r.Context(), up.resumeText, up.jobText)
	if err != nil {
		slog.Error("resume analysis failed", slog.Any("error", err))
		errorResponse(w, http.StatusInternalServerError, "Failed to analyze resume")
		return
	}

	multiFactor, err := json.Marshal(analysis.Result)
	if err != nil {
		slog.Error("failed to encode score", slog.Any("error", err))
		errorResponse(w, http.StatusInternalServerError, "Failed to analyze resume")
		return
	}
	var feedback json.RawMessage = []byte("null")
	if analysis.Feedback != nil {
		if raw, err := json.Marshal(analysis.Feedback); err == nil {
			feedback = raw
		}
	}

	saved := false
	if userID, err := middleware.GetUserID(r); err == nil && s.store != nil {
		rec := &db.ResumeScore{
			UserID:             userID,
			Score:              analysis.Result.OverallScore,
			Breakdown:          multiFactor,
			JobTitle:           up.jobTitle,
			CompanyName:        up.companyName,
			JobDescriptionHash: analytics.JobDescriptionHash(up.jobTitle, up.companyName),
			FileName:           up.fileName,
			ProcessingMS:       int(s.now().Sub(start).Milliseconds()),
			ScoringVersion:     ats.Version,
		}
		if analysis.Feedback != nil {
			rec.AIFeedback = feedback
		}
		if err := s.store.SaveResumeScore(r.Context(), rec); err != nil {
			// The analysis is still returned.
			slog.Error("failed to save resume score",
				slog.String("user_id", userID.String()),
				slog.Any("error", err))
		} else {
			saved = true
		}
	}

	slog.Info("resume analyzed",
		slog.Int("score", analysis.Result.OverallScore),
		slog.Bool("cached", cached),
		slog.Bool("ai_feedback", analysis.Feedback != nil),
		slog.Bool("saved", saved),
		slog.Duration("duration", s.now().Sub(start)))

	jsonResponse(w, http.StatusOK, types.ATSUploadResponse{
		Message:        "Resume analyzed successfully",
		ResumeChars:    utf8.RuneCountInString(up.resumeText),
		OverallScore:   analysis.Result.OverallScore,
		MultiFactor:    multiFactor,
		GeminiAnalysis: feedback,
		ScoreSaved:     saved,
		Cached:         cached,
	})
}

// readUpload parses the multipart form and extracts both texts. A non-zero
// status means the request was rejected with msg.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (atsUpload, int, string) {
	maxBytes := s.cfg.Server.UploadMaxBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return atsUpload{}, http.StatusRequestEntityTooLarge, "File too large"
		}
		return atsUpload{}, http.StatusBadRequest, "Resume file and job description required"
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("resume")
	rawJob := strings.TrimSpace(r.FormValue("jobDescription"))
	if err != nil || rawJob == "" {
		return atsUpload{}, http.StatusBadRequest, "Resume file and job description required"
	}
	defer file.Close()

	if header.Size > maxBytes {
		return atsUpload{}, http.StatusRequestEntityTooLarge, "File too large"
	}
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return atsUpload{}, http.StatusInternalServerError, "Failed to process resume file"
	}
	if int64(len(data)) > maxBytes {
		return atsUpload{}, http.StatusRequestEntityTooLarge, "File too large"
	}

	resumeText, err := extract.FromUpload(header.Filename, data)
	switch {
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return atsUpload{}, http.StatusBadRequest, "Unsupported file format"
	case errors.Is(err, extract.ErrNoText):
		return atsUpload{}, http.StatusUnprocessableEntity,
			"No selectable text found. If this is a scanned PDF, upload a text-based PDF, DOCX or TXT."
	case err != nil:
		slog.Warn("resume extraction failed", slog.String("file", header.Filename), slog.Any("error", err))
		return atsUpload{}, http.StatusInternalServerError, "Failed to process resume file"
	}

	jobText, err := extract.JobDescription(rawJob)
	if err != nil || jobText == "" {
		return atsUpload{}, http.StatusBadRequest, "Job description could not be read"
	}

	return atsUpload{
		fileName:    header.Filename,
		resumeText:  resumeText,
		jobText:     jobText,
		jobTitle:    strings.TrimSpace(r.FormValue("jobTitle")),
		companyName: strings.TrimSpace(r.FormValue("companyName")),
	}, 0, ""
}

// analyze returns the cached analysis when present. Otherwise it scores and,
// when an LLM is configured, fetches feedback concurrently. Feedback is
// best-effort: its failure leaves Feedback nil.
func (s *Server) analyze(ctx context.Context, resumeText, jobText string) (*cachedAnalysis, bool, error) {
	key := cache.ScoreKey(s.scorer.Fingerprint(), resumeText, jobText)
	if hit, ok := cache.GetJSON[cachedAnalysis](ctx, s.cache, key); ok && hit.Result != nil {
		if hit.Feedback != nil || s.llm == nil {
			return &hit, true, nil
		}
		// Score is cached but feedback failed last time; retry feedback only.
		hit.Feedback = s.feedback(ctx, resumeText, jobText)
		if hit.Feedback != nil {
			cache.SetJSON(ctx, s.cache, key, hit)
		}
		return &hit, true, nil
	}

	var out cachedAnalysis
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := s.scorer.Score(gctx, resumeText, jobText)
		if err != nil {
			return err
		}
		out.Result = res
		return nil
	})
	if s.llm != nil {
		g.Go(func() error {
			out.Feedback = s.feedback(gctx, resumeText, jobText)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	cache.SetJSON(ctx, s.cache, key, out)
	return &out, false, nil
}

func (s *Server) feedback(ctx context.Context, resumeText, jobText string) *llm.Feedback {
	if timeout := s.cfg.Gemini.FeedbackTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	start := time.Now()
	fb, err := llm.AnalyzeResume(ctx, s.llm, resumeText, jobText)
	if err != nil {
		slog.Warn("AI feedback unavailable, continuing with heuristic scoring only",
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err))
		return nil
	}
	return fb
}
