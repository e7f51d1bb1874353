package report

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// messages holds every display string as key, Chinese, English.
var messages = [][3]string{
	{"report.title", "区县考核得分报告", "District assessment report"},
	{"report.period", "考核周期", "Period"},
	{"report.source", "数据来源", "Source"},
	{"report.rounding", "取整方式", "Rounding"},
	{"report.failures", "未能计分的文件", "Files not scored"},
	{"report.empty", "没有可计分的数据", "Nothing to score"},

	{"title.complaint", "投诉及重复故障管理", "Complaint and repeat-fault management"},
	{"title.delivery", "集客业务交付管理", "Delivery timeliness and success"},
	{"title.outage", "专线退服管控", "Dedicated-circuit outage control"},

	{"col.district", "区县", "District"},
	{"col.complaints", "投诉次数", "Complaints"},
	{"col.repeated", "是否重复投诉", "Repeated"},
	{"col.resolveRate", "解决率(%)", "Resolve rate (%)"},
	{"col.complaintScore", "投诉得分", "Complaint score"},
	{"col.resolveScore", "解决率得分", "Resolve score"},
	{"col.total", "总分", "Total"},
	{"col.onTimeRate", "及时率(%)", "On-time rate (%)"},
	{"col.onTimeScore", "及时率得分", "On-time score"},
	{"col.successRate", "成功率(%)", "Success rate (%)"},
	{"col.successScore", "成功率得分", "Success score"},
	{"col.outageRate", "退服率(%)", "Outage rate (%)"},
	{"col.rateScore", "退服率得分", "Outage score"},
	{"col.interruptions", "AAA中断次数", "AAA interruptions"},
	{"col.factor", "AAA系数", "AAA factor"},

	{"word.yes", "是", "yes"},
	{"word.no", "否", "no"},
	{"word.present", "有", "yes"},
	{"word.absent", "无", "no"},
	{"fmt.count", "%d次", "%dx"},

	{"notes.title", "全市得分计算说明", "City score breakdown"},
	{"note.complaints", "投诉次数：%d次（各区县之和）", "Complaints: %d (sum of districts)"},
	{"note.repeated", "重复投诉状态：%s", "Repeat complaints: %s"},
	{"note.resolveMean", "解决率平均值：%.2f%%", "Mean resolve rate: %.2f%%"},
	{"note.complaintScore", "投诉压降得分：%.2f/%s分（挑战值:%s, 基准值:%s）", "Complaint score: %.2f/%s (challenge: %s, baseline: %s)"},
	{"note.resolveScore", "解决率得分：%.2f/%s分（基准值:%.2f%%, 挑战值:%.2f%%）", "Resolve score: %.2f/%s (baseline: %.2f%%, challenge: %.2f%%)"},
	{"note.onTimeMean", "及时率平均值：%.2f%%", "Mean on-time rate: %.2f%%"},
	{"note.onTimeScore", "及时率得分：%.2f/%s分（基准值:%.2f%%, 挑战值:%.2f%%）", "On-time score: %.2f/%s (baseline: %.2f%%, challenge: %.2f%%)"},
	{"note.successMean", "成功率平均值：%.2f%%", "Mean success rate: %.2f%%"},
	{"note.successScore", "成功率得分：%.2f/%s分（基准值:%.2f%%, 挑战值:%.2f%%）", "Success score: %.2f/%s (baseline: %.2f%%, challenge: %.2f%%)"},
	{"note.outageMean", "退服率平均值：%.2f%%", "Mean outage rate: %.2f%%"},
	{"note.outageScore", "退服率得分：%.2f/%s分（基准值:%.2f%%, 挑战值:%.2f%%）", "Outage score: %.2f/%s (baseline: %.2f%%, challenge: %.2f%%)"},
	{"note.interruptionsMean", "AAA中断次数平均值：%d次", "Mean AAA interruptions: %d"},
	{"note.factor", "AAA系数：%s", "AAA factor: %s"},
	{"note.total", "全市总分：%.2f/%s分", "City total: %.2f/%s"},
}

var labelCatalog = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.Chinese))
	for _, m := range messages {
		if err := b.SetString(language.Chinese, m[0], m[1]); err != nil {
			panic(err)
		}
		if err := b.SetString(language.English, m[0], m[2]); err != nil {
			panic(err)
		}
	}
	return b
}

// ParseLang maps a lang setting to a language tag. Anything other than
// English selects Chinese.
func ParseLang(s string) language.Tag {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "en") {
		return language.English
	}
	return language.Chinese
}

// Labels renders localised display strings.
type Labels struct {
	tag     language.Tag
	printer *message.Printer
}

// NewLabels creates Labels for a lang setting ("zh" or "en").
func NewLabels(lang string) *Labels {
	tag := ParseLang(lang)
	return &Labels{tag: tag, printer: message.NewPrinter(tag, message.Catalog(labelCatalog))}
}

// Tag returns the language in use.
func (l *Labels) Tag() language.Tag {
	return l.tag
}

// T looks up key and formats it with args.
func (l *Labels) T(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// Bool renders a yes/no cell.
func (l *Labels) Bool(v bool) string {
	if v {
		return l.T("word.yes")
	}
	return l.T("word.no")
}

// Count renders an occurrence count with its unit.
func (l *Labels) Count(n int) string {
	return l.T("fmt.count", n)
}
