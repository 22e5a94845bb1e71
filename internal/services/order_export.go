package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"restoran/internal/models"
)

var exportHeader = []string{
	"Order ID", "Created At", "Customer Name", "Email", "Mobile", "Table",
	"Items", "Cooking Instructions", "Status", "Payment Status", "Payment Method", "Total",
}

// ExportOrdersCSV writes every order, newest first, as CSV to w.
func (s *OrderService) ExportOrdersCSV(ctx context.Context, w io.Writer) error {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	menu, err := s.menuRepo.GetAll(ctx, models.MenuFilter{})
	if err != nil {
		return err
	}
	names := make(map[uint]string, len(menu))
	for _, item := range menu {
		names[item.ID] = item.Name
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, order := range orders {
		record := []string{
			strconv.FormatUint(uint64(order.ID), 10),
			order.CreatedAt.UTC().Format(time.RFC3339),
			order.CustomerName,
			order.UserEmail,
			order.MobileNumber,
			strconv.Itoa(order.TableNumber),
			describeItems(order.Items, names),
			order.CookingInstructions,
			string(order.Status),
			string(order.PaymentStatus),
			string(order.PaymentMethod),
			strconv.FormatFloat(order.Total, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// describeItems renders lines as "2x Butter Naan; 1x Dal Makhani (Spice Level: Hot)".
func describeItems(items []models.OrderItem, names map[uint]string) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		name, ok := names[item.MenuItemID]
		if !ok {
			name = fmt.Sprintf("item #%d", item.MenuItemID)
		}
		part := fmt.Sprintf("%dx %s", item.Quantity, name)
		if opts := describeCustomizations(item.Customizations); opts != "" {
			part += " (" + opts + ")"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "; ")
}

func describeCustomizations(c map[string][]string) string {
	if len(c) == 0 {
		return ""
	}
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(c[k], ", "))
	}
	return strings.Join(parts, ", ")
}
