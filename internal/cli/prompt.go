// Package cli collects the recommendation form on a terminal.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"coursepick/internal/models/request_models"
)

// Prompter asks for one field at a time. Bad numbers are asked again rather than
// aborting the whole session.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

func (p *Prompter) line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *Prompter) yesNo(prompt string) (bool, error) {
	v, err := p.line(prompt)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(v, "是") || strings.EqualFold(v, "y") || strings.EqualFold(v, "yes"), nil
}

func (p *Prompter) intIn(prompt string, min, max int) (int, error) {
	for {
		v, err := p.line(prompt)
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(v)
		if convErr == nil && n >= min && n <= max {
			return n, nil
		}
		fmt.Fprintf(p.out, "请输入 %d 到 %d 之间的整数\n", min, max)
	}
}

// Collect walks through the form in the same order as the web page.
func (p *Prompter) Collect() (request_models.FormState, error) {
	s := request_models.DefaultFormState()
	var err error

	fmt.Fprintln(p.out, "欢迎使用选课推荐系统！")
	fmt.Fprintln(p.out, "请输入您的信息：")

	if s.IsFreshman, err = p.yesNo("是否为新生（是/否）："); err != nil {
		return s, err
	}
	if !s.IsFreshman {
		if s.CurrentGrade, err = p.intIn("当前年级（1-4）：", 1, 4); err != nil {
			return s, err
		}
		if s.CurrentSemester, err = p.intIn("当前学期（1-2）：", 1, 2); err != nil {
			return s, err
		}
		courses, err := p.line("已修课程（用逗号分隔）：")
		if err != nil {
			return s, err
		}
		s.CompletedCourses = request_models.CourseText(courses)
	}

	if s.StudyAbroad, err = p.yesNo("是否计划出国留学（是/否）："); err != nil {
		return s, err
	}
	if s.Internship, err = p.yesNo("是否计划实习（是/否）："); err != nil {
		return s, err
	}
	if s.UpperboundCredits, err = p.intIn("每学期专业课学分上限（9-20）：", 9, 20); err != nil {
		return s, err
	}
	if s.Internship {
		sem, err := p.intIn("计划在哪个学期实习（1-8）：", 1, 8)
		if err != nil {
			return s, err
		}
		s.InternshipSemester = &sem
	}

	if err := p.collectPlanning(&s); err != nil {
		return s, err
	}
	if err := p.collectSubjects(&s); err != nil {
		return s, err
	}
	return s, nil
}

func (p *Prompter) collectPlanning(s *request_models.FormState) error {
	fmt.Fprintln(p.out, "\n请选择您的总体规划：")
	for i, pt := range request_models.PlanningTypes {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, pt.Label())
	}
	choice, err := p.line("请选择（1-4）：")
	if err != nil {
		return err
	}
	pt, ok := request_models.ParsePlanningType(choice)
	if !ok {
		pt = request_models.PlanningMinimalEffort
	}
	s.PlanningType = pt

	if pt == request_models.PlanningBalancedWorkload {
		target, err := p.intIn("请输入每学期目标学分（9-20）：", 9, 20)
		if err != nil {
			return err
		}
		s.TargetCreditsPerSemester = &target
	}
	return nil
}

func (p *Prompter) collectSubjects(s *request_models.FormState) error {
	fmt.Fprintf(p.out, "\n请选择您感兴趣的学科子领域（最多选择%d个）：\n", request_models.MaxPreferredSubjects)
	for i, tag := range request_models.Subjects {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, tag)
	}
	fmt.Fprintln(p.out, "0. 完成选择")

	for !s.SubjectsFull() {
		choice, err := p.line(fmt.Sprintf("请选择（已选择%d个，输入0完成选择）：", len(s.PreferredSubjects)))
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if choice == "0" {
			return nil
		}
		n, convErr := strconv.Atoi(choice)
		if convErr != nil || n < 1 || n > len(request_models.Subjects) {
			continue
		}
		tag := request_models.Subjects[n-1]
		if !s.HasSubject(tag) {
			if _, err := s.ToggleSubject(tag); err != nil {
				return err
			}
		}
	}
	return nil
}
