package attendance

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"marktime.com/marktime/core"
	"marktime.com/marktime/report"
	"marktime.com/marktime/web/common"
)

// Archive is the published-report store the download routes read from.
// The S3 filesystem satisfies it in production.
type Archive interface {
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, key string, outStream io.Writer) error
}

type Endpoint struct {
	dm          core.Store
	clock       core.Clock
	workingDays int
	archive     Archive
}

func Register(r gin.IRouter, dm core.Store, clock core.Clock, workingDays int, archive Archive) {
	endpoint := &Endpoint{dm: dm, clock: clock, workingDays: workingDays, archive: archive}
	r.POST("/mark", endpoint.Mark)
	r.POST("/wfh_mark", endpoint.WFHMark)
	r.GET("/attendance", endpoint.List)
	r.GET("/reports/daily.pdf", endpoint.DailyPDF)
	r.GET("/reports/monthly", endpoint.Monthly)
	r.GET("/reports/monthly.xlsx", endpoint.MonthlyWorkbook)
	if archive != nil {
		r.GET("/reports/archive", endpoint.ArchiveList)
		r.GET("/reports/archive/*key", endpoint.ArchiveDownload)
	}
}

// Mark handles a kiosk tap. Response shapes are fixed by the kiosk page:
// {name, role, status} on success, {"error": status} for unknown employees.
func (ep *Endpoint) Mark(c *gin.Context) {
	var req MarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var result *core.MarkResult
	err := ep.dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		result, err = core.MarkAttendance(db, ep.clock, req.EmployeeID)
		return err
	})
	if errors.Is(err, core.ErrEmployeeNotFound) {
		c.JSON(http.StatusOK, gin.H{"error": core.StatusNotRegistered})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, result)
}

// WFHMark handles an explicit IN/OUT intent. Every recognized condition,
// including rejections, comes back as a {message} payload.
func (ep *Endpoint) WFHMark(c *gin.Context) {
	var req WFHRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var message string
	err := ep.dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		message, err = core.MarkWFH(db, ep.clock, req.EmployeeID, req.Type)
		return err
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, WFHResponse{Message: message})
}

// List serves the live attendance view: one date when ?date= is given,
// otherwise everything, most recent first.
func (ep *Endpoint) List(c *gin.Context) {
	date := c.Query("date")

	var entries []core.DayEntry
	err := ep.dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		if date != "" {
			entries, err = core.ListByDate(db, date)
		} else {
			entries, err = core.ListRecent(db)
		}
		return err
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(entries))
}

func (ep *Endpoint) DailyPDF(c *gin.Context) {
	today := core.DateOf(ep.clock.Now())

	var entries []core.DayEntry
	err := ep.dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		entries, err = core.ListForReport(db, today)
		return err
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	pdf, err := report.DailyPDF(today, entries)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="daily_attendance.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (ep *Endpoint) monthlyRows(c *gin.Context) (int, int, []report.MonthlyRow, bool) {
	now := ep.clock.Now()
	year, month := now.Year(), int(now.Month())
	if val, err := strconv.Atoi(c.Query("year")); err == nil {
		year = val
	}
	if val, err := strconv.Atoi(c.Query("month")); err == nil {
		month = val
	}
	if month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid month"))
		return 0, 0, nil, false
	}

	var employees []core.Employee
	var presence map[string]int
	err := ep.dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		if employees, err = core.ListEmployees(db); err != nil {
			return err
		}
		presence, err = core.MonthlyPresence(db, year, month)
		return err
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return 0, 0, nil, false
	}

	return year, month, report.MonthlySummary(employees, presence, ep.workingDays), true
}

// ArchiveList returns the keys of every published daily report, newest keys
// sorting last since they are date-prefixed.
func (ep *Endpoint) ArchiveList(c *gin.Context) {
	keys, err := ep.archive.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(keys))
}

// ArchiveDownload streams one published report. Gin's wildcard keeps the
// leading slash, so it is trimmed before the key is looked up.
func (ep *Endpoint) ArchiveDownload(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" || strings.Contains(key, "..") {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid report key"))
		return
	}

	var buf bytes.Buffer
	if err := ep.archive.Read(c.Request.Context(), key, &buf); err != nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse(err.Error()))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+path.Base(key)+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (ep *Endpoint) Monthly(c *gin.Context) {
	_, _, rows, ok := ep.monthlyRows(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(rows))
}

func (ep *Endpoint) MonthlyWorkbook(c *gin.Context) {
	year, month, rows, ok := ep.monthlyRows(c)
	if !ok {
		return
	}

	book, err := report.MonthlyWorkbook(year, month, rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="monthly_attendance.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", book)
}
