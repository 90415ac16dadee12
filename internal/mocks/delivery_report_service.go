package mocks

import (
	"github.com/stretchr/testify/mock"
)

type DeliveryReportService struct {
	mock.Mock
}

func (m *DeliveryReportService) ScheduleReports(phone, messageID string) {
	m.Called(phone, messageID)
}
