package views

import (
	"html/template"
	"io"
	"strings"

	"coursepick/internal/models/request_models"
	"coursepick/internal/models/response_models"
)

// PageData feeds the form page.
type PageData struct {
	Title   string
	State   request_models.FormState
	Options response_models.OptionsResponse
	Loading bool
	// Notice is a problem with the post itself, shown above the form.
	Notice  string
	Outcome *response_models.Outcome
}

var pageFuncs = template.FuncMap{
	"seq": func(from, to int) []int {
		out := make([]int, 0, to-from+1)
		for i := from; i <= to; i++ {
			out = append(out, i)
		}
		return out
	},
	"ptrEq": func(p *int, v int) bool {
		return p != nil && *p == v
	},
	"credits": response_models.FormatCredits,
	"deref": func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	},
	"join": func(items []string) string {
		return strings.Join(items, "、")
	},
}

var pageTpl = template.Must(template.New("page").Funcs(pageFuncs).Parse(pageHTMLTemplate))

func RenderPage(w io.Writer, data PageData) error {
	if data.Title == "" {
		data.Title = "课程推荐"
	}
	return pageTpl.Execute(w, data)
}

const pageHTMLTemplate = `<!doctype html>
<html lang="zh-CN">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; padding: 24px; background: #f8fafc; color: #0f172a;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", "PingFang SC", "Microsoft YaHei", sans-serif; }
    .container { max-width: 880px; margin: 0 auto; }
    form { background: #ffffff; border-radius: 12px; padding: 24px; box-shadow: 0 4px 16px rgba(15, 23, 42, 0.08); }
    fieldset { border: none; margin: 0 0 16px; padding: 0; }
    label { display: block; margin-bottom: 6px; font-weight: 600; }
    .inline label { display: inline-block; font-weight: 400; margin-right: 16px; }
    textarea, select { width: 100%; padding: 8px; border: 1px solid #cbd5e1; border-radius: 8px; box-sizing: border-box; }
    .subjects label { display: inline-block; width: 48%; font-weight: 400; }
    .hint { color: #64748b; font-size: 13px; }
    button { background: #2563eb; color: #ffffff; border: none; border-radius: 8px; padding: 10px 20px; font-size: 15px; cursor: pointer; }
    button[disabled] { background: #94a3b8; cursor: wait; }
    .notice { background: #fef3c7; border-radius: 8px; padding: 12px; margin-bottom: 16px; }
    .error { background: #fee2e2; color: #991b1b; border-radius: 8px; padding: 12px; margin-top: 24px; }
    .message { margin-top: 24px; font-weight: 600; }
    table { width: 100%; border-collapse: collapse; margin: 12px 0 24px; background: #ffffff; }
    th, td { border: 1px solid #e2e8f0; padding: 8px; text-align: left; font-size: 14px; }
    th { background: #f1f5f9; }
    [hidden] { display: none !important; }
  </style>
</head>
<body>
<div class="container">
  <h1>{{.Title}}</h1>
  {{if .Notice}}<div class="notice">{{.Notice}}</div>{{end}}

  <form id="recommend-form" method="post" action="/">
    <fieldset class="inline">
      <label><input type="checkbox" name="is_freshman" id="is_freshman" {{if .State.IsFreshman}}checked{{end}}> 我是大一新生</label>
    </fieldset>

    <div id="completed-section" {{if .State.IsFreshman}}hidden{{end}}>
      <fieldset>
        <label for="current_grade">当前年级</label>
        <select name="current_grade" id="current_grade">
          {{range seq 1 4}}<option value="{{.}}" {{if eq $.State.CurrentGrade .}}selected{{end}}>大{{.}}</option>{{end}}
        </select>
      </fieldset>

      <fieldset>
        <label for="current_semester">当前学期</label>
        <select name="current_semester" id="current_semester">
          <option value="1" {{if eq .State.CurrentSemester 1}}selected{{end}}>上学期</option>
          <option value="2" {{if eq .State.CurrentSemester 2}}selected{{end}}>下学期</option>
        </select>
      </fieldset>

      <fieldset>
        <label for="completed_courses">已修课程</label>
        <textarea name="completed_courses" id="completed_courses" rows="3" placeholder="用逗号分隔，例如：高等数学，线性代数">{{.State.CompletedCourses}}</textarea>
      </fieldset>
    </div>

    <fieldset class="inline">
      <label><input type="checkbox" name="study_abroad" {{if .State.StudyAbroad}}checked{{end}}> 计划出国交换</label>
      <label><input type="checkbox" name="internship" id="internship" {{if .State.Internship}}checked{{end}}> 计划实习</label>
    </fieldset>

    <fieldset id="internship-section" {{if not .State.Internship}}hidden{{end}}>
      <label for="internship_semester">实习学期</label>
      <select name="internship_semester" id="internship_semester">
        <option value="">请选择</option>
        {{range seq 1 8}}<option value="{{.}}" {{if ptrEq $.State.InternshipSemester .}}selected{{end}}>第{{.}}学期</option>{{end}}
      </select>
    </fieldset>

    <fieldset>
      <label for="planning_type">规划类型</label>
      <select name="planning_type" id="planning_type">
        {{range .Options.PlanningTypes}}<option value="{{.Value}}" {{if eq (print $.State.PlanningType) .Value}}selected{{end}}>{{.Label}}</option>{{end}}
      </select>
    </fieldset>

    <fieldset id="target-section" {{if not .State.NeedsTargetCredits}}hidden{{end}}>
      <label for="target_credits_per_semester">每学期目标学分</label>
      <select name="target_credits_per_semester" id="target_credits_per_semester">
        <option value="">请选择</option>
        {{range seq 9 20}}<option value="{{.}}" {{if ptrEq $.State.TargetCreditsPerSemester .}}selected{{end}}>{{.}}</option>{{end}}
      </select>
    </fieldset>

    <fieldset class="subjects" id="subjects" data-max="{{.Options.MaxPreferredSubjects}}">
      <label>偏好方向 <span class="hint">最多选择 {{.Options.MaxPreferredSubjects}} 个</span></label>
      {{range .Options.Subjects}}<label><input type="checkbox" name="preferred_subjects" value="{{.}}" {{if $.State.HasSubject .}}checked{{else if $.State.SubjectsFull}}disabled{{end}}> {{.}}</label>{{end}}
    </fieldset>

    <fieldset>
      <label for="upperbound_credits">每学期学分上限</label>
      <select name="upperbound_credits" id="upperbound_credits">
        {{range seq 9 20}}<option value="{{.}}" {{if eq $.State.UpperboundCredits .}}selected{{end}}>{{.}}</option>{{end}}
      </select>
    </fieldset>

    <button type="submit" id="submit" {{if .Loading}}disabled{{end}}>{{if .Loading}}正在生成…{{else}}生成推荐课表{{end}}</button>
  </form>

  {{with .Outcome}}
  {{if .Failed}}
  <div class="error" id="result-error">{{.Error}}</div>
  {{else}}
  <div id="result">
    {{if .Message}}<div class="message">{{.Message}}</div>{{end}}
    {{if .TotalCredits}}<p>总学分：{{credits (deref .TotalCredits)}}</p>{{end}}
    {{range .Semesters}}
    <h3>第{{.Label}}学期 <span class="hint">（{{credits .Credits}} 学分）</span></h3>
    <table class="semester" data-semester="{{.Label}}">
      <thead>
        <tr><th>课程名</th><th>学分</th><th>时间</th><th>教师</th><th>地点</th><th>备注</th>{{if .HasCategories}}<th>课程类别</th>{{end}}</tr>
      </thead>
      <tbody>
        {{$cats := .HasCategories}}
        {{range .Courses}}<tr><td>{{.Name}}</td><td>{{.CreditsLabel}}</td><td>{{.Time}}</td><td>{{.Teacher}}</td><td>{{.Location}}</td><td>{{.Note}}</td>{{if $cats}}<td>{{join .SubjectCategory}}</td>{{end}}</tr>
        {{end}}
      </tbody>
    </table>
    {{end}}
    {{if .Semesters}}<p><a href="/api/schedule/export?format=csv">下载 CSV</a> · <a href="/api/schedule/export?format=xlsx">下载 Excel</a></p>{{end}}
  </div>
  {{end}}
  {{end}}
</div>
<script>
(function () {
  var form = document.getElementById('recommend-form');
  function toggle(id, show) { document.getElementById(id).hidden = !show; }
  function sync() {
    toggle('completed-section', !form.is_freshman.checked);
    toggle('internship-section', form.internship.checked);
    toggle('target-section', form.planning_type.value === 'Balanced Workload');
    var box = document.getElementById('subjects');
    var max = parseInt(box.dataset.max, 10);
    var inputs = box.querySelectorAll('input[type=checkbox]');
    var picked = box.querySelectorAll('input[type=checkbox]:checked').length;
    inputs.forEach(function (el) { el.disabled = !el.checked && picked >= max; });
  }
  form.addEventListener('change', sync);
  form.addEventListener('submit', function () {
    var btn = document.getElementById('submit');
    btn.disabled = true;
    btn.textContent = '正在生成…';
  });
  sync();
})();
</script>
</body>
</html>
`
