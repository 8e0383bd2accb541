// Package answer selects the pre-authored answer for a registration number.
package answer

import (
	"strconv"

	"github.com/efreitasn/qualifier/internal/domain"
)

// Parity is the even/odd class of a registration number's last two digits.
type Parity string

const (
	Even Parity = "even"
	Odd  Parity = "odd"
)

// DefaultEven is the authored answer for even registration numbers: per
// department, the average age of employees with any payment above 70000 and
// up to 10 of their full names, departments ordered by id descending.
const DefaultEven = "WITH EmployeeAges AS ( " +
	"SELECT e.EMP_ID, e.FIRST_NAME, e.LAST_NAME, e.DEPARTMENT, " +
	"TIMESTAMPDIFF(YEAR, e.DOB, CURDATE()) AS AGE " +
	"FROM EMPLOYEE e " +
	"), " +
	"HighEarners AS ( " +
	"SELECT DISTINCT ea.EMP_ID, ea.FIRST_NAME, ea.LAST_NAME, ea.DEPARTMENT, ea.AGE " +
	"FROM EmployeeAges ea " +
	"INNER JOIN PAYMENTS p ON ea.EMP_ID = p.EMP_ID " +
	"WHERE p.AMOUNT > 70000 " +
	"), " +
	"DepartmentAverage AS ( " +
	"SELECT he.DEPARTMENT, AVG(he.AGE) AS AVERAGE_AGE " +
	"FROM HighEarners he " +
	"GROUP BY he.DEPARTMENT " +
	"), " +
	"RankedEmployees AS ( " +
	"SELECT he.DEPARTMENT, he.FIRST_NAME, he.LAST_NAME, " +
	"ROW_NUMBER() OVER (PARTITION BY he.DEPARTMENT ORDER BY he.EMP_ID) AS RN " +
	"FROM HighEarners he " +
	") " +
	"SELECT d.DEPARTMENT_NAME, " +
	"ROUND(da.AVERAGE_AGE, 2) AS AVERAGE_AGE, " +
	"GROUP_CONCAT(CONCAT(re.FIRST_NAME, ' ', re.LAST_NAME) " +
	"ORDER BY re.RN SEPARATOR ', ') AS EMPLOYEE_LIST " +
	"FROM DEPARTMENT d " +
	"INNER JOIN DepartmentAverage da ON d.DEPARTMENT_ID = da.DEPARTMENT " +
	"INNER JOIN RankedEmployees re ON d.DEPARTMENT_ID = re.DEPARTMENT AND re.RN <= 10 " +
	"GROUP BY d.DEPARTMENT_ID, d.DEPARTMENT_NAME, da.AVERAGE_AGE " +
	"ORDER BY d.DEPARTMENT_ID DESC"

// Unspecified is the placeholder for the odd branch until an operator
// configures the real answer.
const Unspecified = "-- UNSPECIFIED: no answer has been authored for odd registration numbers"

// Table maps each parity to its answer.
type Table struct {
	Even string
	Odd  string
}

// NewTable builds a Table, filling empty branches with DefaultEven and
// Unspecified.
func NewTable(even, odd string) Table {
	if even == "" {
		even = DefaultEven
	}
	if odd == "" {
		odd = Unspecified
	}
	return Table{Even: even, Odd: odd}
}

// ParityOf parses the last two characters of regNo as a decimal number and
// returns its parity.
func ParityOf(regNo string) (Parity, error) {
	if len(regNo) < 2 {
		return "", &domain.FormatError{Value: regNo, Message: "must have at least two characters"}
	}

	suffix := regNo[len(regNo)-2:]
	for i := 0; i < len(suffix); i++ {
		if suffix[i] < '0' || suffix[i] > '9' {
			return "", &domain.FormatError{Value: regNo, Message: "last two characters must be digits"}
		}
	}

	n, err := strconv.Atoi(suffix)
	if err != nil {
		return "", &domain.FormatError{Value: regNo, Message: err.Error()}
	}
	if n%2 == 0 {
		return Even, nil
	}
	return Odd, nil
}

// Select returns the answer for regNo's parity along with the parity.
func (t Table) Select(regNo string) (string, Parity, error) {
	p, err := ParityOf(regNo)
	if err != nil {
		return "", "", err
	}
	if p == Even {
		return t.Even, p, nil
	}
	return t.Odd, p, nil
}
