package controllers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coursepick/internal/api/views"
	"coursepick/internal/models/request_models"
	"coursepick/internal/services"
	"coursepick/pkg/middleware"
	"coursepick/pkg/utils"
)

// PageController serves the server-rendered form.
type PageController struct {
	formService      services.FormServiceInterface
	recommendService services.RecommendationServiceInterface
	log              *zap.Logger
}

func NewPageController(formService services.FormServiceInterface, recommendService services.RecommendationServiceInterface, log *zap.Logger) *PageController {
	if log == nil {
		log = zap.NewNop()
	}
	return &PageController{
		formService:      formService,
		recommendService: recommendService,
		log:              log.Named("page"),
	}
}

func (p *PageController) Index(c *gin.Context) {
	form, err := p.formService.GetForm(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		p.renderError(c, err)
		return
	}
	p.render(c, http.StatusOK, views.PageData{
		State:   form.State,
		Options: p.formService.Options(),
		Loading: form.Loading,
		Outcome: form.Outcome,
	})
}

// Submit applies the posted form and sends it. The page is rendered with the fresh
// outcome; a post that cannot be applied is shown as a notice and nothing is sent.
func (p *PageController) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := middleware.SessionID(c)

	if err := c.Request.ParseForm(); err != nil {
		p.renderError(c, err)
		return
	}

	state, err := p.formService.ApplyForm(ctx, sessionID, c.Request.PostForm)
	if err != nil {
		code, _ := utils.StatusFor(err)
		if code >= http.StatusInternalServerError {
			p.renderError(c, err)
			return
		}
		p.render(c, code, views.PageData{
			State:   state,
			Options: p.formService.Options(),
			Notice:  noticeFor(err),
		})
		return
	}

	outcome, err := p.recommendService.Submit(ctx, sessionID)
	data := views.PageData{State: state, Options: p.formService.Options()}
	switch {
	case errors.Is(err, utils.ErrSubmissionInFlight):
		data.Loading = true
		data.Notice = services.BusyMessage
		if last, lastErr := p.recommendService.LastOutcome(ctx, sessionID); lastErr == nil {
			data.Outcome = last
		}
	case errors.Is(err, utils.ErrInvalidForm):
		data.Outcome = &outcome
	case err != nil:
		p.renderError(c, err)
		return
	default:
		data.Outcome = &outcome
	}
	p.render(c, http.StatusOK, data)
}

func (p *PageController) render(c *gin.Context, status int, data views.PageData) {
	var buf bytes.Buffer
	if err := views.RenderPage(&buf, data); err != nil {
		p.log.Error("render page", zap.String("trace_id", c.GetString("trace_id")), zap.Error(err))
		c.String(http.StatusInternalServerError, "页面渲染失败")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (p *PageController) renderError(c *gin.Context, err error) {
	code, _ := utils.StatusFor(err)
	p.log.Error("form page", zap.String("trace_id", c.GetString("trace_id")), zap.Error(err))
	p.render(c, code, views.PageData{
		State:   request_models.DefaultFormState(),
		Options: p.formService.Options(),
		Notice:  "服务暂时不可用，请稍后重试",
	})
}

func noticeFor(err error) string {
	switch {
	case errors.Is(err, utils.ErrUnknownSubject):
		return "所选学科方向不存在"
	case errors.Is(err, utils.ErrInvalidFieldValue), errors.Is(err, utils.ErrUnknownField):
		return "表单内容有误，请检查后重新提交"
	default:
		return services.InvalidFormMessage
	}
}
