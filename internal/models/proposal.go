package models

type Proposal struct {
	BaseModel
	JobID       string `gorm:"not null;index;uniqueIndex:idx_proposals_job_creator"`
	CreatorID   string `gorm:"not null;index;uniqueIndex:idx_proposals_job_creator"`
	CoverLetter string
	Price       float64
	Status      ProposalStatus `gorm:"type:varchar(20);default:'pending'"`
}

// IsTerminal reports whether no further transition is defined for the status.
func (p *Proposal) IsTerminal() bool {
	return p.Status != ProposalStatusPending
}
