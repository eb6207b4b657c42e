package catalog

import (
	"context"
)

// AttributeDefinition describes one schema-level dropdown attribute.
type AttributeDefinition struct {
	Name   string
	Slug   string
	Values []string
}

// CreatedAttribute is one result of a bulk attribute create.
type CreatedAttribute struct {
	ID   string
	Slug string
}

// ProductTypeCreateInput describes a new product type and its attribute schema.
type ProductTypeCreateInput struct {
	Name               string
	Slug               string
	ProductAttrIDs     []string
	VariantAttrIDs     []string
	IsShippingRequired bool
}

// AttributeValue stamps one attribute id with a plain value.
type AttributeValue struct {
	ID    string
	Value string
}

// ProductCreateInput describes the base catalog product.
type ProductCreateInput struct {
	Name          string
	Slug          string
	ProductTypeID string
	CategoryID    string
	Description   string
	Attributes    []AttributeValue
}

// StockInput is one initial stock record at a warehouse.
type StockInput struct {
	WarehouseID string
	Quantity    int
}

// VariantCreateInput describes the single variant created per product.
type VariantCreateInput struct {
	ProductID  string
	Name       string
	SKU        string
	Attributes []AttributeValue
	Stock      StockInput
}

const attributeBySlugQuery = `
query AttributeBySlug($slug: String!) {
  attribute(slug: $slug) {
    id
    slug
  }
}`

// AttributeBySlug looks up an attribute id by its stable slug.
func (c *Client) AttributeBySlug(ctx context.Context, slug string) (string, bool, error) {
	var data struct {
		Attribute *struct {
			ID   string `json:"id"`
			Slug string `json:"slug"`
		} `json:"attribute"`
	}

	if err := c.do(ctx, "AttributeBySlug", attributeBySlugQuery, map[string]interface{}{"slug": slug}, &data); err != nil {
		return "", false, err
	}

	if data.Attribute == nil || data.Attribute.ID == "" {
		return "", false, nil
	}
	return data.Attribute.ID, true, nil
}

const attributeBulkCreateMutation = `
mutation AttributeBulkCreate($attributes: [AttributeBulkCreateInput!]!) {
  attributeBulkCreate(attributes: $attributes) {
    results {
      attribute {
        id
        slug
      }
      errors {
        path
        message
        code
      }
    }
    errors {
      message
      code
    }
  }
}`

// AttributeBulkCreate creates all missing attribute definitions in one call.
// Any per-item error fails the whole call; there is no partial acceptance.
func (c *Client) AttributeBulkCreate(ctx context.Context, defs []AttributeDefinition) ([]CreatedAttribute, error) {
	inputs := make([]map[string]interface{}, 0, len(defs))
	for _, def := range defs {
		values := make([]map[string]interface{}, 0, len(def.Values))
		for _, v := range def.Values {
			values = append(values, map[string]interface{}{"name": v})
		}
		inputs = append(inputs, map[string]interface{}{
			"name":      def.Name,
			"slug":      def.Slug,
			"type":      "PRODUCT_TYPE",
			"inputType": "DROPDOWN",
			"values":    values,
		})
	}

	var data struct {
		AttributeBulkCreate struct {
			Results []struct {
				Attribute *struct {
					ID   string `json:"id"`
					Slug string `json:"slug"`
				} `json:"attribute"`
				Errors []APIError `json:"errors"`
			} `json:"results"`
			Errors []APIError `json:"errors"`
		} `json:"attributeBulkCreate"`
	}

	if err := c.do(ctx, "AttributeBulkCreate", attributeBulkCreateMutation, map[string]interface{}{"attributes": inputs}, &data); err != nil {
		return nil, err
	}

	payload := data.AttributeBulkCreate
	if len(payload.Errors) > 0 {
		return nil, &MutationError{Operation: "AttributeBulkCreate", Errors: payload.Errors}
	}

	created := make([]CreatedAttribute, 0, len(payload.Results))
	for _, result := range payload.Results {
		if len(result.Errors) > 0 {
			return nil, &MutationError{Operation: "AttributeBulkCreate", Errors: result.Errors}
		}
		if result.Attribute == nil || result.Attribute.ID == "" {
			return nil, ErrNoIDReturned
		}
		created = append(created, CreatedAttribute{ID: result.Attribute.ID, Slug: result.Attribute.Slug})
	}

	return created, nil
}

const productTypeBySlugQuery = `
query ProductTypeBySlug($slug: String!) {
  productTypes(filter: { slugs: [$slug] }, first: 1) {
    edges {
      node {
        id
        slug
      }
    }
  }
}`

// ProductTypeBySlug looks up an existing product-type id by slug.
func (c *Client) ProductTypeBySlug(ctx context.Context, slug string) (string, bool, error) {
	var data struct {
		ProductTypes struct {
			Edges []struct {
				Node struct {
					ID   string `json:"id"`
					Slug string `json:"slug"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"productTypes"`
	}

	if err := c.do(ctx, "ProductTypeBySlug", productTypeBySlugQuery, map[string]interface{}{"slug": slug}, &data); err != nil {
		return "", false, err
	}

	if len(data.ProductTypes.Edges) == 0 {
		return "", false, nil
	}
	return data.ProductTypes.Edges[0].Node.ID, true, nil
}

const productTypeCreateMutation = `
mutation ProductTypeCreate($input: ProductTypeInput!) {
  productTypeCreate(input: $input) {
    productType {
      id
    }
    errors {
      field
      message
      code
    }
  }
}`

// ProductTypeCreate creates a product type carrying the resolved attribute
// schema. Duplicate-slug conflicts surface as a MutationError recognized by
// IsAlreadyExists.
func (c *Client) ProductTypeCreate(ctx context.Context, in ProductTypeCreateInput) (string, error) {
	input := map[string]interface{}{
		"name":               in.Name,
		"slug":               in.Slug,
		"kind":               "NORMAL",
		"hasVariants":        true,
		"isShippingRequired": in.IsShippingRequired,
		"productAttributes":  in.ProductAttrIDs,
		"variantAttributes":  in.VariantAttrIDs,
	}

	var data struct {
		ProductTypeCreate struct {
			ProductType *struct {
				ID string `json:"id"`
			} `json:"productType"`
			Errors []APIError `json:"errors"`
		} `json:"productTypeCreate"`
	}

	if err := c.do(ctx, "ProductTypeCreate", productTypeCreateMutation, map[string]interface{}{"input": input}, &data); err != nil {
		return "", err
	}

	payload := data.ProductTypeCreate
	if len(payload.Errors) > 0 {
		return "", &MutationError{Operation: "ProductTypeCreate", Errors: payload.Errors}
	}
	if payload.ProductType == nil || payload.ProductType.ID == "" {
		return "", ErrNoIDReturned
	}
	return payload.ProductType.ID, nil
}

const productCreateMutation = `
mutation ProductCreate($input: ProductCreateInput!) {
  productCreate(input: $input) {
    product {
      id
    }
    errors {
      field
      message
      code
    }
  }
}`

// ProductCreate creates the base catalog product.
func (c *Client) ProductCreate(ctx context.Context, in ProductCreateInput) (string, error) {
	attributes := make([]map[string]interface{}, 0, len(in.Attributes))
	for _, attr := range in.Attributes {
		attributes = append(attributes, map[string]interface{}{
			"id":     attr.ID,
			"values": []string{attr.Value},
		})
	}

	input := map[string]interface{}{
		"name":        in.Name,
		"slug":        in.Slug,
		"productType": in.ProductTypeID,
		"category":    in.CategoryID,
		"attributes":  attributes,
	}
	if in.Description != "" {
		input["description"] = in.Description
	}

	var data struct {
		ProductCreate struct {
			Product *struct {
				ID string `json:"id"`
			} `json:"product"`
			Errors []APIError `json:"errors"`
		} `json:"productCreate"`
	}

	if err := c.do(ctx, "ProductCreate", productCreateMutation, map[string]interface{}{"input": input}, &data); err != nil {
		return "", err
	}

	payload := data.ProductCreate
	if len(payload.Errors) > 0 {
		return "", &MutationError{Operation: "ProductCreate", Errors: payload.Errors}
	}
	if payload.Product == nil || payload.Product.ID == "" {
		return "", ErrNoIDReturned
	}
	return payload.Product.ID, nil
}

const variantCreateMutation = `
mutation VariantCreate($input: ProductVariantCreateInput!) {
  productVariantCreate(input: $input) {
    productVariant {
      id
    }
    errors {
      field
      message
      code
    }
  }
}`

// VariantCreate creates the product's single variant with inventory
// tracking enabled and one stock record at the configured warehouse.
func (c *Client) VariantCreate(ctx context.Context, in VariantCreateInput) (string, error) {
	attributes := make([]map[string]interface{}, 0, len(in.Attributes))
	for _, attr := range in.Attributes {
		attributes = append(attributes, map[string]interface{}{
			"id":     attr.ID,
			"values": []string{attr.Value},
		})
	}

	input := map[string]interface{}{
		"product":        in.ProductID,
		"sku":            in.SKU,
		"name":           in.Name,
		"trackInventory": true,
		"attributes":     attributes,
		"stocks": []map[string]interface{}{
			{
				"warehouse": in.Stock.WarehouseID,
				"quantity":  in.Stock.Quantity,
			},
		},
	}

	var data struct {
		ProductVariantCreate struct {
			ProductVariant *struct {
				ID string `json:"id"`
			} `json:"productVariant"`
			Errors []APIError `json:"errors"`
		} `json:"productVariantCreate"`
	}

	if err := c.do(ctx, "VariantCreate", variantCreateMutation, map[string]interface{}{"input": input}, &data); err != nil {
		return "", err
	}

	payload := data.ProductVariantCreate
	if len(payload.Errors) > 0 {
		return "", &MutationError{Operation: "VariantCreate", Errors: payload.Errors}
	}
	if payload.ProductVariant == nil || payload.ProductVariant.ID == "" {
		return "", ErrNoIDReturned
	}
	return payload.ProductVariant.ID, nil
}

const publishMutation = `
mutation ProductChannelListingUpdate($id: ID!, $input: ProductChannelListingUpdateInput!) {
  productChannelListingUpdate(id: $id, input: $input) {
    product {
      id
    }
    errors {
      field
      message
      code
    }
  }
}`

// Publish lists the product in the sales channel. Must complete before any
// channel price can be attached to the variant.
func (c *Client) Publish(ctx context.Context, productID, channelID string) error {
	input := map[string]interface{}{
		"updateChannels": []map[string]interface{}{
			{
				"channelId":              channelID,
				"isPublished":            true,
				"isAvailableForPurchase": true,
				"visibleInListings":      true,
			},
		},
	}

	var data struct {
		ProductChannelListingUpdate struct {
			Product *struct {
				ID string `json:"id"`
			} `json:"product"`
			Errors []APIError `json:"errors"`
		} `json:"productChannelListingUpdate"`
	}

	if err := c.do(ctx, "ProductChannelListingUpdate", publishMutation,
		map[string]interface{}{"id": productID, "input": input}, &data); err != nil {
		return err
	}

	payload := data.ProductChannelListingUpdate
	if len(payload.Errors) > 0 {
		return &MutationError{Operation: "ProductChannelListingUpdate", Errors: payload.Errors}
	}
	if payload.Product == nil || payload.Product.ID == "" {
		return ErrNoIDReturned
	}
	return nil
}

const setVariantPriceMutation = `
mutation VariantChannelListingUpdate($id: ID!, $input: [ProductVariantChannelListingAddInput!]!) {
  productVariantChannelListingUpdate(id: $id, input: $input) {
    variant {
      id
    }
    errors {
      field
      message
      code
    }
  }
}`

// SetVariantPrice attaches the channel price to the variant.
func (c *Client) SetVariantPrice(ctx context.Context, variantID, channelID string, price int64) error {
	input := []map[string]interface{}{
		{
			"channelId": channelID,
			"price":     price,
		},
	}

	var data struct {
		ProductVariantChannelListingUpdate struct {
			Variant *struct {
				ID string `json:"id"`
			} `json:"variant"`
			Errors []APIError `json:"errors"`
		} `json:"productVariantChannelListingUpdate"`
	}

	if err := c.do(ctx, "VariantChannelListingUpdate", setVariantPriceMutation,
		map[string]interface{}{"id": variantID, "input": input}, &data); err != nil {
		return err
	}

	payload := data.ProductVariantChannelListingUpdate
	if len(payload.Errors) > 0 {
		return &MutationError{Operation: "VariantChannelListingUpdate", Errors: payload.Errors}
	}
	if payload.Variant == nil || payload.Variant.ID == "" {
		return ErrNoIDReturned
	}
	return nil
}
