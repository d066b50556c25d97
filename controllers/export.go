package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"member-portal-api/models"
	"member-portal-api/utils"

	"github.com/gin-gonic/gin"
)

const exportRowLimit = 10000

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// sendExport writes the rows in the requested format with a dated filename.
// format defaults to excel; csv is the other accepted value.
func sendExport(c *gin.Context, baseName, sheetName string, headers []string, rows [][]string) {
	format := c.DefaultQuery("format", "excel")
	stamp := time.Now().Format("20060102")

	switch format {
	case "csv":
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_%s.csv"`, baseName, stamp))
		if err := utils.WriteCSV(c.Writer, headers, rows); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write export", "code": codeInternal})
		}
	case "excel":
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_%s.xlsx"`, baseName, stamp))
		if err := utils.WriteXLSX(c.Writer, sheetName, headers, rows); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write export", "code": codeInternal})
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be excel or csv", "code": codeValidation})
	}
}

// ExportMembers downloads the filtered member registration list. The same
// filters as the list endpoint apply; the export ignores pagination.
// GET /api/v1/admin/members/export?format=excel|csv&status=&search=&date_from=&date_to=
func ExportMembers(c *gin.Context) {
	query := adminMemberQuery(c)
	if query == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter", "code": codeValidation})
		return
	}

	var members []models.MemberRegistration
	if err := query.Order("create_at DESC").Limit(exportRowLimit).Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch registrations", "code": codeInternal})
		return
	}

	headers := []string{
		"Registration No", "Company", "Business Reg No", "Representative",
		"Contact Email", "Status", "Submitted At", "Reviewed At", "Reviewer Comment",
	}
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{
			m.RegistrationNumber,
			m.CompanyName,
			m.BusinessRegistrationNumber,
			m.RepresentativeName,
			strOrEmpty(m.ContactEmail),
			m.Status.Label(),
			formatTimePtr(m.SubmittedAt),
			formatTimePtr(m.ReviewedAt),
			strOrEmpty(m.ReviewerComment),
		})
	}

	sendExport(c, "members", "Members", headers, rows)
}

// ExportPerformance downloads the filtered performance record list.
// GET /api/v1/admin/performance/export?format=excel|csv&member_id=&type=&status=&year=&search=&date_from=&date_to=
func ExportPerformance(c *gin.Context) {
	query, badFilter := adminPerformanceQuery(c)
	if query == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": badFilter, "code": codeValidation})
		return
	}

	var records []models.PerformanceRecord
	if err := query.Order("create_at DESC").Limit(exportRowLimit).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch records", "code": codeInternal})
		return
	}

	headers := []string{
		"Member", "Type", "Year", "Title", "Amount",
		"Status", "Submitted At", "Reviewed At", "Reviewer Comment",
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.User.FullName(),
			r.RecordType,
			strconv.Itoa(r.RecordYear),
			r.Title,
			strconv.FormatFloat(r.Amount, 'f', 2, 64),
			r.Status.Label(),
			formatTimePtr(r.SubmittedAt),
			formatTimePtr(r.ReviewedAt),
			strOrEmpty(r.ReviewerComment),
		})
	}

	sendExport(c, "performance", "Performance", headers, rows)
}
