package distributor

import (
	"github.com/shopspring/decimal"

	"github.com/dropsync/backend/internal/domain/dropship"
)

// productListResponse is one page of the distributor product listing.
// NextUrl carries the opaque next-page location; an empty value ends the
// walk.
type productListResponse struct {
	Results []productPayload `json:"Results"`
	NextUrl string           `json:"NextUrl"`
}

// productPayload is the distributor's wire representation of an item.
// Net, Retail and Weight may arrive as JSON numbers or quoted strings;
// decimal.Decimal accepts both.
type productPayload struct {
	Item         string          `json:"Item"`
	Desc         string          `json:"Desc"`
	Desc2        string          `json:"Desc2"`
	Desc3        string          `json:"Desc3"`
	UPC          string          `json:"UPC"`
	Size         string          `json:"Size"`
	Designer     string          `json:"Designer"`
	Fragrance    string          `json:"Fragrance"`
	Product      string          `json:"Product"`
	ProductLine  string          `json:"ProductLine"`
	ProductClass string          `json:"ProductClass"`
	Weight       decimal.Decimal `json:"Weight"`
	Net          decimal.Decimal `json:"Net"`
	Retail       decimal.Decimal `json:"Retail"`
	Available    int             `json:"Available"`
	ImageURL     string          `json:"ImageURL"`
}

func (p productPayload) toDomain() dropship.DistributorProduct {
	return dropship.DistributorProduct{
		Item:         p.Item,
		Desc:         p.Desc,
		Desc2:        p.Desc2,
		Desc3:        p.Desc3,
		UPC:          p.UPC,
		Size:         p.Size,
		Designer:     p.Designer,
		Fragrance:    p.Fragrance,
		Product:      p.Product,
		ProductLine:  p.ProductLine,
		ProductClass: p.ProductClass,
		Weight:       p.Weight,
		Net:          p.Net,
		Retail:       p.Retail,
		Available:    p.Available,
		ImageURL:     p.ImageURL,
	}
}

// dropshipRecordResponse is the dropship status listing for one PO number.
type dropshipRecordResponse struct {
	Results []dropshipEntryPayload `json:"Results"`
}

type dropshipEntryPayload struct {
	Suborder string `json:"Suborder"`
	Status   string `json:"Status"`
}

// suborderCreateRequest is the suborder submission payload.
type suborderCreateRequest struct {
	Suborder   string                `json:"Suborder"`
	Prime      bool                  `json:"Prime"`
	Premium    bool                  `json:"Premium"`
	Signature  bool                  `json:"Signature"`
	Comment    string                `json:"Comment"`
	ShipMethod string                `json:"ShipMethod"`
	ShipTo     shipToPayload         `json:"ShipTo"`
	Lines      []suborderLinePayload `json:"Lines"`
}

type shipToPayload struct {
	Name      string `json:"Name"`
	Line1     string `json:"Line1"`
	Line2     string `json:"Line2"`
	City      string `json:"City"`
	State     string `json:"State"`
	Zip       string `json:"Zip"`
	Country   string `json:"Country"`
	Company   string `json:"Company"`
	Phone     string `json:"Phone"`
	Residence bool   `json:"Residence"`
	Email     string `json:"Email"`
}

type suborderLinePayload struct {
	SKU      string `json:"SKU"`
	QTY      int    `json:"QTY"`
	NET      string `json:"NET"`
	ItemDesc string `json:"ItemDesc"`
}

// suborderCreateResponse reports the creation outcome: "FULLY", "PARTIALLY"
// or a rejection value.
type suborderCreateResponse struct {
	Created string `json:"Created"`
}

// dropshipCreateRequest is the finalization payload releasing a suborder
// for fulfillment.
type dropshipCreateRequest struct {
	PO      string `json:"PO"`
	Comment string `json:"Comment"`
}

// suborderDetailResponse is the shipment detail for one suborder.
type suborderDetailResponse struct {
	Shipments []shipmentPayload `json:"Shipments"`
}

type shipmentPayload struct {
	Carrier        string `json:"Carrier"`
	TrackingNumber string `json:"TrackingNumber"`
	TrackingURL    string `json:"TrackingURL"`
}

func newSuborderCreateRequest(req dropship.SuborderRequest) suborderCreateRequest {
	out := suborderCreateRequest{
		Suborder:   req.Suborder,
		Prime:      req.Prime,
		Premium:    req.Premium,
		Signature:  req.Signature,
		Comment:    req.Comment,
		ShipMethod: req.ShipMethod,
		ShipTo: shipToPayload{
			Name:      req.ShipTo.Name,
			Line1:     req.ShipTo.Line1,
			Line2:     req.ShipTo.Line2,
			City:      req.ShipTo.City,
			State:     req.ShipTo.State,
			Zip:       req.ShipTo.Zip,
			Country:   req.ShipTo.Country,
			Company:   req.ShipTo.Company,
			Phone:     req.ShipTo.Phone,
			Residence: req.ShipTo.Residence,
			Email:     req.ShipTo.Email,
		},
		Lines: make([]suborderLinePayload, 0, len(req.Lines)),
	}
	for _, l := range req.Lines {
		out.Lines = append(out.Lines, suborderLinePayload{
			SKU:      l.SKU,
			QTY:      l.Qty,
			NET:      l.Net,
			ItemDesc: l.ItemDesc,
		})
	}
	return out
}
