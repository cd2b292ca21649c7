package service

// 学生端提交的 JSON 载荷。各任务段均可缺省，照片为 Base64 字符串数组。

type StudentInfo struct {
	School      string   `json:"school"`
	Grade       string   `json:"grade"`
	ClassNumber string   `json:"classNumber"`
	Date        string   `json:"date"`
	MemberCount int      `json:"memberCount"`
	GroupNumber int      `json:"groupNumber"`
	MemberNames []string `json:"memberNames"`
}

type SensorySection struct {
	Color string `json:"color"`
	Aroma string `json:"aroma"`
	Shape string `json:"shape"`
	Taste string `json:"taste"`
}

type Task1Section struct {
	TeaName          string         `json:"teaName"`
	TeacherTeaName   string         `json:"teacherTeaName"`
	TeaCategory      string         `json:"teaCategory"`
	WaterTemperature string         `json:"waterTemperature"`
	BrewingDuration  string         `json:"brewingDuration"`
	DryTea           SensorySection `json:"dryTea"`
	TeaLiquor        SensorySection `json:"teaLiquor"`
	SpentLeaves      SensorySection `json:"spentLeaves"`
	ReflectionAnswer string         `json:"reflectionAnswer"`
	Photos           []string       `json:"photos"`
}

type Task2Section struct {
	TeaName             string   `json:"teaName"`
	WaterTemperature    string   `json:"waterTemperature"`
	SteepingDuration    string   `json:"steepingDuration"`
	TeaColor            string   `json:"teaColor"`
	TeaAroma            string   `json:"teaAroma"`
	TeaTaste            string   `json:"teaTaste"`
	MeetsExpectation    bool     `json:"meetsExpectation"`
	NotMeetsExpectation bool     `json:"notMeetsExpectation"`
	ReflectionAnswer    string   `json:"reflectionAnswer"`
	Photos              []string `json:"photos"`
}

type QuestionSection struct {
	Answer string   `json:"answer"`
	Photos []string `json:"photos"`
}

type ChatEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type SubmissionPayload struct {
	StudentInfo  StudentInfo      `json:"studentInfo"`
	Task1        *Task1Section    `json:"task1"`
	Task2        *Task2Section    `json:"task2"`
	Thinking1    *QuestionSection `json:"thinking1"`
	Thinking2    *QuestionSection `json:"thinking2"`
	Creative     *QuestionSection `json:"creative"`
	ChatMessages []ChatEntry      `json:"chatMessages"`
	SubmitTime   int64            `json:"submitTime"`
}
