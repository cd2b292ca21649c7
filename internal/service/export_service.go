package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"teacourse_backend/internal/model"
	"teacourse_backend/internal/repository"
	"teacourse_backend/internal/util"
)

// ExportService 报表导出：CSV 汇总表和完整 JSON。
// 只读聚合数据，不触碰提交路径。
type ExportService struct {
	groups   *repository.GroupRepository
	photoSvc *PhotoService
}

func NewExportService(groups *repository.GroupRepository, photoSvc *PhotoService) *ExportService {
	return &ExportService{groups: groups, photoSvc: photoSvc}
}

type exportChatMessage struct {
	Role         string `json:"role"`
	Content      string `json:"content"`
	MessageIndex int    `json:"messageIndex"`
}

type exportGroup struct {
	SubmissionID      string                         `json:"submissionId"`
	School            string                         `json:"school"`
	Grade             string                         `json:"grade"`
	ClassNumber       string                         `json:"classNumber"`
	ActivityDate      string                         `json:"activityDate"`
	GroupNumber       int                            `json:"groupNumber"`
	MemberCount       int                            `json:"memberCount"`
	MemberNames       []string                       `json:"memberNames"`
	SubmitTime        string                         `json:"submitTime"`
	Task1             *model.Task1Data               `json:"task1,omitempty"`
	Task1Sensory      map[string]model.SensoryRecord `json:"task1Sensory,omitempty"`
	Task2             *model.Task2Data               `json:"task2,omitempty"`
	ThinkingQuestions []model.ThinkingQuestion       `json:"thinkingQuestions"`
	Photos            []PhotoView                    `json:"photos"`
	ChatMessages      []exportChatMessage            `json:"chatMessages"`
	Statistics        exportStatistics               `json:"statistics"`
}

type exportStatistics struct {
	Task1Chars       int `json:"task1Chars"`
	Task2Chars       int `json:"task2Chars"`
	Thinking1Chars   int `json:"thinking1Chars"`
	Thinking2Chars   int `json:"thinking2Chars"`
	CreativeChars    int `json:"creativeChars"`
	PhotoCount       int `json:"photoCount"`
	StudentQuestions int `json:"studentQuestions"`
	AssistantReplies int `json:"assistantReplies"`
}

type exportDocument struct {
	ExportedAt string        `json:"exportedAt"`
	Total      int           `json:"total"`
	Groups     []exportGroup `json:"groups"`
}

// ExportJSON 导出全部聚合为一份 JSON 文档
func (s *ExportService) ExportJSON(filter repository.GroupFilter) ([]byte, error) {
	groups, err := s.groups.ListAggregates(filter)
	if err != nil {
		return nil, util.NewStorageError("list aggregates", err)
	}

	doc := exportDocument{
		ExportedAt: time.Now().Format("2006-01-02 15:04:05"),
		Total:      len(groups),
		Groups:     make([]exportGroup, 0, len(groups)),
	}
	for i := range groups {
		doc.Groups = append(doc.Groups, s.buildExportGroup(&groups[i]))
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ExportCSV 导出汇总表：每组一行，带字数和照片统计
func (s *ExportService) ExportCSV(filter repository.GroupFilter) ([]byte, error) {
	groups, err := s.groups.ListAggregates(filter)
	if err != nil {
		return nil, util.NewStorageError("list aggregates", err)
	}

	var buf bytes.Buffer
	// UTF-8 BOM，Excel 直接打开不乱码
	buf.WriteString("\xEF\xBB\xBF")
	w := csv.NewWriter(&buf)

	header := []string{
		"提交ID", "学校", "年级", "班级", "活动日期", "组号", "成员人数", "成员姓名",
		"提交时间", "任务一字数", "任务二字数", "思考题一字数", "思考题二字数",
		"创意题字数", "照片数", "提问次数",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i := range groups {
		g := &groups[i]
		row := []string{
			g.SubmissionID,
			g.School,
			g.Grade,
			g.ClassNumber,
			model.FormatDate(g.ActivityDate),
			itoa(g.GroupNumber),
			itoa(g.MemberCount),
			joinNames(g.MemberNames()),
			model.FormatDateTime(g.SubmitTime),
			itoa(g.Task1CharCount()),
			itoa(g.Task2CharCount()),
			itoa(g.ThinkingCharCount(model.QuestionThinking1)),
			itoa(g.ThinkingCharCount(model.QuestionThinking2)),
			itoa(g.ThinkingCharCount(model.QuestionCreative)),
			itoa(len(g.Photos)),
			itoa(g.ChatQuestionCount()),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ExportService) buildExportGroup(g *model.StudentGroup) exportGroup {
	eg := exportGroup{
		SubmissionID:      g.SubmissionID,
		School:            g.School,
		Grade:             g.Grade,
		ClassNumber:       g.ClassNumber,
		ActivityDate:      model.FormatDate(g.ActivityDate),
		GroupNumber:       g.GroupNumber,
		MemberCount:       g.MemberCount,
		MemberNames:       g.MemberNames(),
		SubmitTime:        model.FormatDateTime(g.SubmitTime),
		ThinkingQuestions: g.ThinkingQuestions,
	}
	if eg.ThinkingQuestions == nil {
		eg.ThinkingQuestions = []model.ThinkingQuestion{}
	}
	if g.Task1 != nil {
		eg.Task1 = g.Task1
		eg.Task1Sensory = g.Task1.GetSensoryRecords()
	}
	eg.Task2 = g.Task2

	eg.Photos = make([]PhotoView, 0, len(g.Photos))
	for _, p := range g.Photos {
		eg.Photos = append(eg.Photos, PhotoView{
			URL:        s.photoSvc.URL(p.FileName),
			FileName:   p.FileName,
			PhotoIndex: p.PhotoIndex,
		})
	}

	assistantReplies := 0
	eg.ChatMessages = make([]exportChatMessage, 0, len(g.ChatMessages))
	for _, m := range g.ChatMessages {
		if m.Role == model.ChatRoleAssistant {
			assistantReplies++
		}
		eg.ChatMessages = append(eg.ChatMessages, exportChatMessage{
			Role:         m.Role,
			Content:      m.Content,
			MessageIndex: m.MessageIndex,
		})
	}

	eg.Statistics = exportStatistics{
		Task1Chars:       g.Task1CharCount(),
		Task2Chars:       g.Task2CharCount(),
		Thinking1Chars:   g.ThinkingCharCount(model.QuestionThinking1),
		Thinking2Chars:   g.ThinkingCharCount(model.QuestionThinking2),
		CreativeChars:    g.ThinkingCharCount(model.QuestionCreative),
		PhotoCount:       len(g.Photos),
		StudentQuestions: g.ChatQuestionCount(),
		AssistantReplies: assistantReplies,
	}
	return eg
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func joinNames(names []string) string {
	return strings.Join(names, "、")
}
