package projection

import (
	"fmt"
	"time"

	"github.com/Dan9191/ledger-service/internal/models"
)

const (
	// MaxContractOccurrences caps the months projected for one contract.
	MaxContractOccurrences = 24
	// OpenContractMonths is how far past today an open-ended contract projects.
	OpenContractMonths = 24
)

// ContractDescription is the description given to contract-derived obligations
func ContractDescription(clientName string) string {
	return "Contrato mensal - " + clientName
}

// ProjectContract expands a client contract into monthly obligations from
// contractStart (inclusive) through contractEnd, or today+24 months when the
// contract is open-ended. Contracts that are not projectable yield nothing.
func ProjectContract(c models.Contract, today time.Time) ([]models.VirtualOccurrence, error) {
	if !c.Projectable() {
		return nil, nil
	}

	start, err := models.ParseDate(c.ContractStart)
	if err != nil {
		return nil, fmt.Errorf("%w: contract start of client %s: %v", ErrInvalidDate, c.ClientID, err)
	}

	end := AddMonths(truncateDay(today), OpenContractMonths)
	if c.ContractEnd != "" {
		end, err = models.ParseDate(c.ContractEnd)
		if err != nil {
			return nil, fmt.Errorf("%w: contract end of client %s: %v", ErrInvalidDate, c.ClientID, err)
		}
	}
	if start.After(end) {
		return nil, nil
	}

	last := models.PeriodOf(end)
	var out []models.VirtualOccurrence
	for k := 0; k < MaxContractOccurrences; k++ {
		date := AddMonths(start, k)
		period := models.PeriodOf(date)
		if period > last {
			break
		}

		occ := models.NewOccurrence(models.ContractRef(c.ClientID, period))
		occ.Date = models.FormatDate(date)
		occ.Description = ContractDescription(c.ClientName)
		occ.Category = models.ContractCategory
		occ.Type = models.TypeIncome
		occ.Value = c.MonthlyValue
		occ.ClientID = c.ClientID
		out = append(out, occ)
	}
	return out, nil
}
